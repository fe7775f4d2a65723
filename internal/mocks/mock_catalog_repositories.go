package mocks

import (
	"context"

	"github.com/you/neuraread/domain"
)

// MockCategoryRepository implements domain.CategoryRepository interface for testing
type MockCategoryRepository struct {
	CreateFunc     func(ctx context.Context, category *domain.Category) error
	FindByIDFunc   func(ctx context.Context, id uint) (*domain.Category, error)
	FindByNameFunc func(ctx context.Context, name string) (*domain.Category, error)
	ListFunc       func(ctx context.Context) ([]domain.Category, error)
	UpdateFunc     func(ctx context.Context, category *domain.Category) error
	DeleteFunc     func(ctx context.Context, id uint) error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	return nil
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBookRepository implements domain.BookRepository interface for testing
type MockBookRepository struct {
	CreateFunc   func(ctx context.Context, book *domain.Book) error
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Book, error)
	ListFunc     func(ctx context.Context) ([]domain.Book, error)
	UpdateFunc   func(ctx context.Context, book *domain.Book) error
	DeleteFunc   func(ctx context.Context, id uint) error
}

func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{}
}

func (m *MockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, book)
	}
	return nil
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookNotFound
}

func (m *MockBookRepository) List(ctx context.Context) ([]domain.Book, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, book)
	}
	return nil
}

func (m *MockBookRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockStatsRepository implements domain.StatsRepository with fixed counts
type MockStatsRepository struct {
	Users, Contacts, Images, Books, Categories int64
	Err                                        error
}

func (m *MockStatsRepository) CountUsers(context.Context) (int64, error) { return m.Users, m.Err }
func (m *MockStatsRepository) CountContacts(context.Context) (int64, error) {
	return m.Contacts, m.Err
}
func (m *MockStatsRepository) CountImages(context.Context) (int64, error) { return m.Images, m.Err }
func (m *MockStatsRepository) CountBooks(context.Context) (int64, error)  { return m.Books, m.Err }
func (m *MockStatsRepository) CountCategories(context.Context) (int64, error) {
	return m.Categories, m.Err
}

// Compile-time interface compliance verification
var (
	_ domain.CategoryRepository = (*MockCategoryRepository)(nil)
	_ domain.BookRepository     = (*MockBookRepository)(nil)
	_ domain.StatsRepository    = (*MockStatsRepository)(nil)
)
