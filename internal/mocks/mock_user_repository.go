package mocks

import (
	"context"

	"github.com/you/neuraread/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *domain.User) error
	FindByEmailFunc           func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.User, error)
	FindIdentityFunc          func(ctx context.Context, id uint) (*domain.Identity, error)
	FindRoleFunc              func(ctx context.Context, id uint) (string, error)
	ListFunc                  func(ctx context.Context) ([]domain.User, error)
	UpdatePasswordFunc        func(ctx context.Context, id uint, passwordHash string) error
	UpdateRoleFunc            func(ctx context.Context, id uint, role string) error
	IncrementTokenVersionFunc func(ctx context.Context, id uint) (int, error)
	DeleteFunc                func(ctx context.Context, id uint) error
	ContactsFunc              func(ctx context.Context, id uint) ([]domain.Contact, error)
	PhotosFunc                func(ctx context.Context, id uint) ([]domain.Photo, error)
	ReplaceContactsFunc       func(ctx context.Context, id uint, contacts []domain.Contact) error
	AppendPhotosFunc          func(ctx context.Context, id uint, photos []domain.Photo) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindIdentity(ctx context.Context, id uint) (*domain.Identity, error) {
	if m.FindIdentityFunc != nil {
		return m.FindIdentityFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindRole(ctx context.Context, id uint) (string, error) {
	if m.FindRoleFunc != nil {
		return m.FindRoleFunc(ctx, id)
	}
	return "", domain.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockUserRepository) IncrementTokenVersion(ctx context.Context, id uint) (int, error) {
	if m.IncrementTokenVersionFunc != nil {
		return m.IncrementTokenVersionFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) Contacts(ctx context.Context, id uint) ([]domain.Contact, error) {
	if m.ContactsFunc != nil {
		return m.ContactsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) Photos(ctx context.Context, id uint) ([]domain.Photo, error) {
	if m.PhotosFunc != nil {
		return m.PhotosFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) ReplaceContacts(ctx context.Context, id uint, contacts []domain.Contact) error {
	if m.ReplaceContactsFunc != nil {
		return m.ReplaceContactsFunc(ctx, id, contacts)
	}
	return nil
}

func (m *MockUserRepository) AppendPhotos(ctx context.Context, id uint, photos []domain.Photo) error {
	if m.AppendPhotosFunc != nil {
		return m.AppendPhotosFunc(ctx, id, photos)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
