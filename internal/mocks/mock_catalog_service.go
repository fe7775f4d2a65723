package mocks

import (
	"context"

	"github.com/you/neuraread/domain"
)

// MockCatalogService implements domain.CatalogService interface for testing
type MockCatalogService struct {
	ListCategoriesFunc func(ctx context.Context) ([]domain.Category, error)
	GetCategoryFunc    func(ctx context.Context, id uint) (*domain.Category, error)
	CreateCategoryFunc func(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategoryFunc func(ctx context.Context, id uint, name string) (*domain.Category, error)
	DeleteCategoryFunc func(ctx context.Context, id uint) error
	ListBooksFunc      func(ctx context.Context) ([]domain.Book, error)
	GetBookFunc        func(ctx context.Context, id uint) (*domain.Book, error)
	CreateBookFunc     func(ctx context.Context, in domain.BookInput) (*domain.Book, error)
	UpdateBookFunc     func(ctx context.Context, id uint, in domain.BookInput) (*domain.Book, error)
	DeleteBookFunc     func(ctx context.Context, id uint) error
}

func NewMockCatalogService() *MockCatalogService {
	return &MockCatalogService{}
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(ctx, id)
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, name)
	}
	return &domain.Category{ID: 1, Name: name}, nil
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id uint, name string) (*domain.Category, error) {
	if m.UpdateCategoryFunc != nil {
		return m.UpdateCategoryFunc(ctx, id, name)
	}
	return &domain.Category{ID: id, Name: name}, nil
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if m.DeleteCategoryFunc != nil {
		return m.DeleteCategoryFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	if m.ListBooksFunc != nil {
		return m.ListBooksFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogService) GetBook(ctx context.Context, id uint) (*domain.Book, error) {
	if m.GetBookFunc != nil {
		return m.GetBookFunc(ctx, id)
	}
	return nil, domain.ErrBookNotFound
}

func (m *MockCatalogService) CreateBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	if m.CreateBookFunc != nil {
		return m.CreateBookFunc(ctx, in)
	}
	return &domain.Book{ID: 1, Title: in.Title, Author: in.Author, CategoryID: in.CategoryID}, nil
}

func (m *MockCatalogService) UpdateBook(ctx context.Context, id uint, in domain.BookInput) (*domain.Book, error) {
	if m.UpdateBookFunc != nil {
		return m.UpdateBookFunc(ctx, id, in)
	}
	return &domain.Book{ID: id, Title: in.Title, Author: in.Author, CategoryID: in.CategoryID}, nil
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id uint) error {
	if m.DeleteBookFunc != nil {
		return m.DeleteBookFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CatalogService = (*MockCatalogService)(nil)
