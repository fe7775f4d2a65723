package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/infrastructure/storage"
)

// Accepted book formats, matched against the sniffed type
var bookMIMETypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// MediaConfig holds the upload ceilings
type MediaConfig struct {
	MaxBookBytes  int64
	MaxPhotoBytes int64
	MaxPhotos     int
}

// MediaServiceImpl implements domain.MediaService
type MediaServiceImpl struct {
	store      domain.BlobStore
	transcoder domain.CoverTranscoder
	config     MediaConfig
	newKey     func(folder, ext string) string
}

// NewMediaService creates a media service over a blob store
func NewMediaService(store domain.BlobStore, transcoder domain.CoverTranscoder, config MediaConfig) domain.MediaService {
	return &MediaServiceImpl{
		store:      store,
		transcoder: transcoder,
		config:     config,
		newKey:     storage.NewKey,
	}
}

func sniff(u *domain.Upload) *mimetype.MIME {
	return mimetype.Detect(u.Data)
}

func isImage(m *mimetype.MIME) bool {
	return strings.HasPrefix(m.String(), "image/")
}

func isBookFormat(m *mimetype.MIME) bool {
	return m.Is(bookMIMETypes[0]) || m.Is(bookMIMETypes[1]) || m.Is(bookMIMETypes[2])
}

func unsupported(u *domain.Upload, m *mimetype.MIME) error {
	return fmt.Errorf("%w: %s (%s) under %q", domain.ErrUnsupportedFormat, u.Filename, m.String(), u.Field)
}

// ValidateBookUpload implements domain.MediaService. Either buffer may be nil.
func (s *MediaServiceImpl) ValidateBookUpload(book, cover *domain.Upload) error {
	if book != nil {
		if m := sniff(book); !isBookFormat(m) {
			return unsupported(book, m)
		}
	}
	if cover != nil {
		if m := sniff(cover); !isImage(m) {
			return unsupported(cover, m)
		}
	}
	if total := book.Size() + cover.Size(); total > s.config.MaxBookBytes {
		return fmt.Errorf("%w: book and cover are %d bytes, limit is %d", domain.ErrPayloadTooLarge, total, s.config.MaxBookBytes)
	}
	return nil
}

// UploadBookFile implements domain.MediaService
func (s *MediaServiceImpl) UploadBookFile(ctx context.Context, book *domain.Upload) (*domain.StoredObject, error) {
	m := sniff(book)
	if !isBookFormat(m) {
		return nil, unsupported(book, m)
	}
	return s.store.Put(ctx, s.newKey(storage.FolderBooks, m.Extension()), m.String(), book.Data)
}

// UploadCover implements domain.MediaService. The stored rendition is always JPEG.
func (s *MediaServiceImpl) UploadCover(ctx context.Context, cover *domain.Upload) (*domain.StoredObject, error) {
	if m := sniff(cover); !isImage(m) {
		return nil, unsupported(cover, m)
	}
	data, err := s.transcoder.Transcode(cover.Data)
	if err != nil {
		return nil, fmt.Errorf("cover %s: %w", cover.Filename, err)
	}
	return s.store.Put(ctx, s.newKey(storage.FolderCovers, ".jpg"), "image/jpeg", data)
}

// UploadPhotos implements domain.MediaService. Photos go up one by one and
// the ones stored before a failure are returned along with the error.
func (s *MediaServiceImpl) UploadPhotos(ctx context.Context, photos []*domain.Upload) ([]domain.StoredObject, error) {
	if len(photos) == 0 {
		return nil, domain.NewValidationError("photos", "no files uploaded")
	}
	if len(photos) > s.config.MaxPhotos {
		return nil, domain.NewValidationError("photos", fmt.Sprintf("at most %d files per upload", s.config.MaxPhotos))
	}

	var total int64
	types := make([]*mimetype.MIME, len(photos))
	for i, p := range photos {
		m := sniff(p)
		if !isImage(m) {
			return nil, unsupported(p, m)
		}
		types[i] = m
		total += p.Size()
	}
	if total > s.config.MaxPhotoBytes {
		return nil, fmt.Errorf("%w: photos are %d bytes, limit is %d", domain.ErrPayloadTooLarge, total, s.config.MaxPhotoBytes)
	}

	stored := make([]domain.StoredObject, 0, len(photos))
	for i, p := range photos {
		obj, err := s.store.Put(ctx, s.newKey(storage.FolderPhotos, types[i].Extension()), types[i].String(), p.Data)
		if err != nil {
			return stored, err
		}
		stored = append(stored, *obj)
	}
	return stored, nil
}

// Delete implements domain.MediaService. An empty key is a no-op.
func (s *MediaServiceImpl) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}
