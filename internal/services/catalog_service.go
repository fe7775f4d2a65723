package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/logging"
)

// CatalogServiceImpl implements domain.CatalogService
type CatalogServiceImpl struct {
	categories domain.CategoryRepository
	books      domain.BookRepository
	media      domain.MediaService
	audit      domain.AuditLogger
	log        logging.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	categories domain.CategoryRepository,
	books domain.BookRepository,
	media domain.MediaService,
	audit domain.AuditLogger,
	log logging.Logger,
) domain.CatalogService {
	return &CatalogServiceImpl{
		categories: categories,
		books:      books,
		media:      media,
		audit:      audit,
		log:        log,
	}
}

func (s *CatalogServiceImpl) changed(ctx context.Context, entity, op string, id uint) {
	_ = s.audit.LogCatalogChange(ctx, domain.ActorIDFrom(ctx), entity, op, id)
}

// ListCategories implements domain.CatalogService
func (s *CatalogServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory implements domain.CatalogService
func (s *CatalogServiceImpl) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// CreateCategory implements domain.CatalogService
func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("", "Category name is required")
	}

	if _, err := s.categories.FindByName(ctx, name); err == nil {
		return nil, domain.ErrCategoryExists
	} else if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.changed(ctx, "category", "create", category.ID)
	return category, nil
}

// UpdateCategory implements domain.CatalogService
func (s *CatalogServiceImpl) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("", "Category name is required")
	}

	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case err == nil && existing.ID != id:
		return nil, domain.ErrCategoryExists
	case err != nil && !errors.Is(err, domain.ErrCategoryNotFound):
		return nil, err
	}

	category := &domain.Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.changed(ctx, "category", "update", id)
	return category, nil
}

// DeleteCategory implements domain.CatalogService. Books of the category stay.
func (s *CatalogServiceImpl) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, "category", "delete", id)
	return nil
}

// ListBooks implements domain.CatalogService
func (s *CatalogServiceImpl) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

// GetBook implements domain.CatalogService
func (s *CatalogServiceImpl) GetBook(ctx context.Context, id uint) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *CatalogServiceImpl) requireCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.NewValidationError("", "Category is required")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.NewValidationError("", fmt.Sprintf("Category %d does not exist", id))
		}
		return err
	}
	return nil
}

// discard deletes blobs whose owning write did not happen
func (s *CatalogServiceImpl) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.media.Delete(ctx, key); err != nil {
			s.log.Warn(ctx, "failed to delete blob", "key", key, "error", err)
		}
	}
}

// CreateBook implements domain.CatalogService
func (s *CatalogServiceImpl) CreateBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	title, author := strings.TrimSpace(in.Title), strings.TrimSpace(in.Author)
	if title == "" || author == "" {
		return nil, domain.NewValidationError("", "Please fill all the fields")
	}
	if in.Book == nil || in.Cover == nil {
		return nil, domain.NewValidationError("", "Book file and cover image are required")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if err := s.media.ValidateBookUpload(in.Book, in.Cover); err != nil {
		return nil, err
	}

	bookObj, err := s.media.UploadBookFile(ctx, in.Book)
	if err != nil {
		return nil, err
	}
	coverObj, err := s.media.UploadCover(ctx, in.Cover)
	if err != nil {
		s.discard(ctx, bookObj.Key)
		return nil, err
	}

	book := &domain.Book{
		Title:      title,
		Author:     author,
		CategoryID: in.CategoryID,
	}
	setBookObject(book, bookObj)
	setCoverObject(book, coverObj)

	if err := s.books.Create(ctx, book); err != nil {
		s.discard(ctx, bookObj.Key, coverObj.Key)
		return nil, err
	}
	s.changed(ctx, "book", "create", book.ID)
	return book, nil
}

// UpdateBook implements domain.CatalogService. Replacement files are stored
// before the row changes; the superseded blobs are removed afterwards.
func (s *CatalogServiceImpl) UpdateBook(ctx context.Context, id uint, in domain.BookInput) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(in.Title); t != "" {
		book.Title = t
	}
	if a := strings.TrimSpace(in.Author); a != "" {
		book.Author = a
	}
	if in.CategoryID != 0 && in.CategoryID != book.CategoryID {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		book.CategoryID = in.CategoryID
	}
	if err := s.media.ValidateBookUpload(in.Book, in.Cover); err != nil {
		return nil, err
	}

	var stale, fresh []string
	if in.Book != nil {
		obj, err := s.media.UploadBookFile(ctx, in.Book)
		if err != nil {
			return nil, err
		}
		stale = append(stale, book.BookStorageKey)
		fresh = append(fresh, obj.Key)
		setBookObject(book, obj)
	}
	if in.Cover != nil {
		obj, err := s.media.UploadCover(ctx, in.Cover)
		if err != nil {
			s.discard(ctx, fresh...)
			return nil, err
		}
		stale = append(stale, book.CoverStorageKey)
		fresh = append(fresh, obj.Key)
		setCoverObject(book, obj)
	}

	if err := s.books.Update(ctx, book); err != nil {
		s.discard(ctx, fresh...)
		return nil, err
	}
	s.discard(ctx, stale...)
	s.changed(ctx, "book", "update", id)
	return book, nil
}

// DeleteBook implements domain.CatalogService. Blob removal is best effort.
func (s *CatalogServiceImpl) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, book.BookStorageKey, book.CoverStorageKey)
	s.changed(ctx, "book", "delete", id)
	return nil
}

func setBookObject(b *domain.Book, obj *domain.StoredObject) {
	b.BookStorageKey = obj.Key
	b.BookSecureURL = obj.SecureURL
	b.BookPublicURL = obj.PublicURL
}

func setCoverObject(b *domain.Book, obj *domain.StoredObject) {
	b.CoverStorageKey = obj.Key
	b.CoverSecureURL = obj.SecureURL
	b.CoverPublicURL = obj.PublicURL
}
