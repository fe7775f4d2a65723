package mocks

import (
	"context"

	"github.com/you/neuraread/domain"
)

// MockUserService implements domain.UserService interface for testing
type MockUserService struct {
	ListUsersFunc    func(ctx context.Context) ([]domain.User, error)
	GetUserFunc      func(ctx context.Context, id uint) (*domain.User, error)
	DeleteUserFunc   func(ctx context.Context, id uint) error
	UpdateRoleFunc   func(ctx context.Context, id uint, role string) (*domain.User, error)
	ContactsFunc     func(ctx context.Context, id uint) ([]domain.Contact, error)
	PhotosFunc       func(ctx context.Context, id uint) ([]domain.Photo, error)
	SyncContactsFunc func(ctx context.Context, id uint, contacts []domain.Contact) ([]domain.Contact, error)
	UploadPhotosFunc func(ctx context.Context, id uint, photos []*domain.Upload) ([]domain.Photo, error)
}

func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uint) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *MockUserService) UpdateRole(ctx context.Context, id uint, role string) (*domain.User, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return &domain.User{ID: id, Role: role}, nil
}

func (m *MockUserService) Contacts(ctx context.Context, id uint) ([]domain.Contact, error) {
	if m.ContactsFunc != nil {
		return m.ContactsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) Photos(ctx context.Context, id uint) ([]domain.Photo, error) {
	if m.PhotosFunc != nil {
		return m.PhotosFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) SyncContacts(ctx context.Context, id uint, contacts []domain.Contact) ([]domain.Contact, error) {
	if m.SyncContactsFunc != nil {
		return m.SyncContactsFunc(ctx, id, contacts)
	}
	return contacts, nil
}

func (m *MockUserService) UploadPhotos(ctx context.Context, id uint, photos []*domain.Upload) ([]domain.Photo, error) {
	if m.UploadPhotosFunc != nil {
		return m.UploadPhotosFunc(ctx, id, photos)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.UserService = (*MockUserService)(nil)
