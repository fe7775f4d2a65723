package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// CatalogHandlers serves the book-admin category and book routes
type CatalogHandlers struct {
	catalog domain.CatalogService
	limits  UploadLimits
}

func NewCatalogHandlers(catalog domain.CatalogService, limits UploadLimits) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog, limits: limits}
}

type categoryRequest struct {
	CategoryName string `json:"categoryName"`
}

func (h *CatalogHandlers) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if len(categories) == 0 {
		respondMessage(c, http.StatusNotFound, "No categories found")
		return
	}
	respondOK(c, http.StatusOK, "Categories retrieved successfully", gin.H{"categories": categories})
}

func (h *CatalogHandlers) GetCategory(c *gin.Context) {
	id, err := paramID(c, "catId", "category")
	if err != nil {
		respondError(c, err)
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Category retrieved successfully", gin.H{"category": category})
}

func (h *CatalogHandlers) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), req.CategoryName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Category created successfully", gin.H{"category": category})
}

func (h *CatalogHandlers) UpdateCategory(c *gin.Context) {
	id, err := paramID(c, "id", "category")
	if err != nil {
		respondError(c, err)
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, req.CategoryName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Category updated successfully", gin.H{"category": category})
}

func (h *CatalogHandlers) DeleteCategory(c *gin.Context) {
	id, err := paramID(c, "id", "category")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Category deleted successfully", gin.H{"id": id})
}

func (h *CatalogHandlers) ListBooks(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Books retrieved successfully", gin.H{"books": books})
}

func (h *CatalogHandlers) GetBook(c *gin.Context) {
	id, err := paramID(c, "bookId", "book")
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Book retrieved successfully", gin.H{"book": book})
}

// bookInput reads the text fields and the book/cover files of a multipart form.
// categoryKey differs between create ("category") and update ("categoryId").
func (h *CatalogHandlers) bookInput(c *gin.Context, categoryKey string) (domain.BookInput, error) {
	form, err := parseMultipart(c, h.limits.MaxBookBytes)
	if err != nil {
		return domain.BookInput{}, err
	}

	in := domain.BookInput{
		Title:  formValue(c, form, "title"),
		Author: formValue(c, form, "author"),
	}
	if raw := formValue(c, form, categoryKey); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return domain.BookInput{}, domain.NewValidationError("", "Invalid category ID")
		}
		in.CategoryID = uint(id)
	}
	if in.Book, err = singleUpload(form, domain.FieldBook); err != nil {
		return domain.BookInput{}, err
	}
	if in.Cover, err = singleUpload(form, domain.FieldCover); err != nil {
		return domain.BookInput{}, err
	}
	return in, nil
}

func (h *CatalogHandlers) CreateBook(c *gin.Context) {
	in, err := h.bookInput(c, "category")
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := h.catalog.CreateBook(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Book and cover uploaded successfully", gin.H{"book": book})
}

func (h *CatalogHandlers) UpdateBook(c *gin.Context) {
	id, err := paramID(c, "bookId", "book")
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := h.bookInput(c, "categoryId")
	if err != nil {
		respondError(c, err)
		return
	}
	book, err := h.catalog.UpdateBook(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Book updated successfully", gin.H{"book": book})
}

func (h *CatalogHandlers) DeleteBook(c *gin.Context) {
	id, err := paramID(c, "bookId", "book")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Book deleted successfully", gin.H{"id": id})
}
