package services

import (
	"context"
	"strings"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/logging"
)

// UserServiceImpl implements domain.UserService
type UserServiceImpl struct {
	users domain.UserRepository
	media domain.MediaService
	audit domain.AuditLogger
	log   logging.Logger
}

// NewUserService creates a new user service
func NewUserService(users domain.UserRepository, media domain.MediaService, audit domain.AuditLogger, log logging.Logger) domain.UserService {
	return &UserServiceImpl{users: users, media: media, audit: audit, log: log}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// DeleteUser implements domain.UserService. Photo blobs are removed after the
// row is gone; a failed blob delete is only logged.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uint) error {
	photos, err := s.users.Photos(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	for _, p := range photos {
		if err := s.media.Delete(ctx, p.StorageKey); err != nil {
			s.log.Warn(ctx, "failed to delete photo blob", "user_id", id, "key", p.StorageKey, "error", err)
		}
	}
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserDeletedEvent, domain.ActorIDFrom(ctx)).
		WithClientContext(domain.ClientContextFrom(ctx)).
		WithMetadata("deleted_user_id", id))
	return nil
}

// UpdateRole implements domain.UserService. The new role applies to the very
// next gated request because the gate never trusts the token for it.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, id uint, role string) (*domain.User, error) {
	role = strings.TrimSpace(role)
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domain.NewValidationError("role", "must be admin or user")
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RoleChangedEvent, domain.ActorIDFrom(ctx)).
		WithClientContext(domain.ClientContextFrom(ctx)).
		WithMetadata("target_user_id", id).
		WithMetadata("role", role))
	return s.users.FindByID(ctx, id)
}

func (s *UserServiceImpl) Contacts(ctx context.Context, id uint) ([]domain.Contact, error) {
	return s.users.Contacts(ctx, id)
}

func (s *UserServiceImpl) Photos(ctx context.Context, id uint) ([]domain.Photo, error) {
	return s.users.Photos(ctx, id)
}

// SyncContacts implements domain.UserService by replacing the stored address book
func (s *UserServiceImpl) SyncContacts(ctx context.Context, id uint, contacts []domain.Contact) ([]domain.Contact, error) {
	clean := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		name := strings.TrimSpace(c.Name)
		numbers := make([]string, 0, len(c.PhoneNumbers))
		for _, n := range c.PhoneNumbers {
			if n = strings.TrimSpace(n); n != "" {
				numbers = append(numbers, n)
			}
		}
		if name == "" && len(numbers) == 0 {
			continue
		}
		clean = append(clean, domain.Contact{Name: name, PhoneNumbers: numbers})
	}
	if err := s.users.ReplaceContacts(ctx, id, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

// UploadPhotos implements domain.UserService. Nothing is recorded on the user
// unless the whole batch reaches the blob host.
func (s *UserServiceImpl) UploadPhotos(ctx context.Context, id uint, uploads []*domain.Upload) ([]domain.Photo, error) {
	stored, err := s.media.UploadPhotos(ctx, uploads)
	if err != nil {
		if len(stored) > 0 {
			s.log.Warn(ctx, "photo batch failed part way", "user_id", id, "stored", len(stored), "error", err)
		}
		return nil, err
	}
	photos := make([]domain.Photo, 0, len(stored))
	for _, obj := range stored {
		photos = append(photos, domain.Photo{SecureURL: obj.SecureURL, PublicURL: obj.PublicURL, StorageKey: obj.Key})
	}
	if err := s.users.AppendPhotos(ctx, id, photos); err != nil {
		return nil, err
	}
	return photos, nil
}
