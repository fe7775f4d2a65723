package mocks

import (
	"context"
	"fmt"

	"github.com/you/neuraread/domain"
)

// MockMediaService implements domain.MediaService interface for testing.
// By default uploads succeed with keys derived from the field and filename.
type MockMediaService struct {
	ValidateBookUploadFunc func(book, cover *domain.Upload) error
	UploadBookFileFunc     func(ctx context.Context, book *domain.Upload) (*domain.StoredObject, error)
	UploadCoverFunc        func(ctx context.Context, cover *domain.Upload) (*domain.StoredObject, error)
	UploadPhotosFunc       func(ctx context.Context, photos []*domain.Upload) ([]domain.StoredObject, error)
	DeleteFunc             func(ctx context.Context, key string) error
	Deleted                []string
}

func NewMockMediaService() *MockMediaService {
	return &MockMediaService{}
}

func stored(u *domain.Upload) *domain.StoredObject {
	key := fmt.Sprintf("%s/%s", u.Field, u.Filename)
	return &domain.StoredObject{Key: key, SecureURL: "https://media.test/" + key, PublicURL: "http://media.test/" + key}
}

func (m *MockMediaService) ValidateBookUpload(book, cover *domain.Upload) error {
	if m.ValidateBookUploadFunc != nil {
		return m.ValidateBookUploadFunc(book, cover)
	}
	return nil
}

func (m *MockMediaService) UploadBookFile(ctx context.Context, book *domain.Upload) (*domain.StoredObject, error) {
	if m.UploadBookFileFunc != nil {
		return m.UploadBookFileFunc(ctx, book)
	}
	return stored(book), nil
}

func (m *MockMediaService) UploadCover(ctx context.Context, cover *domain.Upload) (*domain.StoredObject, error) {
	if m.UploadCoverFunc != nil {
		return m.UploadCoverFunc(ctx, cover)
	}
	return stored(cover), nil
}

func (m *MockMediaService) UploadPhotos(ctx context.Context, photos []*domain.Upload) ([]domain.StoredObject, error) {
	if m.UploadPhotosFunc != nil {
		return m.UploadPhotosFunc(ctx, photos)
	}
	out := make([]domain.StoredObject, 0, len(photos))
	for _, p := range photos {
		out = append(out, *stored(p))
	}
	return out, nil
}

func (m *MockMediaService) Delete(ctx context.Context, key string) error {
	m.Deleted = append(m.Deleted, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.MediaService = (*MockMediaService)(nil)
