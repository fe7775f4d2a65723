package services

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/infrastructure/imaging"
	"github.com/you/neuraread/internal/infrastructure/storage"
)

func newMediaForTest(t *testing.T) (domain.MediaService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore("media.test")
	return NewMediaService(store, imaging.NewCoverTranscoder(), testMediaConfig()), store
}

func TestMediaService_ValidateBookUpload(t *testing.T) {
	svc, _ := newMediaForTest(t)

	tests := []struct {
		name          string
		book          func(t *testing.T) *domain.Upload
		cover         func(t *testing.T) *domain.Upload
		expectedError error
	}{
		{
			name:  "pdf with png cover",
			book:  func(*testing.T) *domain.Upload { return pdfUpload(1024) },
			cover: func(t *testing.T) *domain.Upload { return imageUpload(t, domain.FieldCover, 40, 30) },
		},
		{
			name: "plain text book",
			book: func(*testing.T) *domain.Upload {
				return &domain.Upload{Field: domain.FieldBook, Filename: "a.txt", Data: []byte("Call me Ishmael.")}
			},
		},
		{
			name: "executable under book",
			book: func(*testing.T) *domain.Upload {
				return &domain.Upload{Field: domain.FieldBook, Filename: "setup.exe", Data: append([]byte("MZ\x90\x00\x03\x00\x00\x00"), make([]byte, 256)...)}
			},
			expectedError: domain.ErrUnsupportedFormat,
		},
		{
			name:          "pdf under cover",
			cover:         func(*testing.T) *domain.Upload { return pdfUpload(100) },
			expectedError: domain.ErrUnsupportedFormat,
		},
		{
			name:          "six megabytes across book and cover",
			book:          func(*testing.T) *domain.Upload { return pdfUpload(5_500_000) },
			cover:         func(t *testing.T) *domain.Upload { return imageUpload(t, domain.FieldCover, 40, 30) },
			expectedError: domain.ErrPayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var book, cover *domain.Upload
			if tt.book != nil {
				book = tt.book(t)
			}
			if tt.cover != nil {
				cover = tt.cover(t)
			}
			err := svc.ValidateBookUpload(book, cover)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMediaService_UploadBookFile(t *testing.T) {
	svc, store := newMediaForTest(t)

	obj, err := svc.UploadBookFile(context.Background(), pdfUpload(64))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, storage.FolderBooks+"/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".pdf"))
	assert.Equal(t, "https://media.test/"+obj.Key, obj.SecureURL)
	assert.Equal(t, "http://media.test/"+obj.Key, obj.PublicURL)

	_, contentType, ok := store.Get(obj.Key)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", contentType)
}

func TestMediaService_UploadCover_TranscodesToJPEG(t *testing.T) {
	svc, store := newMediaForTest(t)

	obj, err := svc.UploadCover(context.Background(), imageUpload(t, domain.FieldCover, 4000, 3000))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, storage.FolderCovers+"/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))

	data, contentType, ok := store.Get(obj.Key)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 300)
	assert.LessOrEqual(t, cfg.Height, 300)
}

func TestMediaService_UploadPhotos(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential upload", func(t *testing.T) {
		svc, store := newMediaForTest(t)
		photos := []*domain.Upload{
			imageUpload(t, domain.FieldPhotos, 10, 10),
			imageUpload(t, domain.FieldPhotos, 20, 10),
		}

		stored, err := svc.UploadPhotos(ctx, photos)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
		assert.Len(t, store.Keys(), 2)
		for _, o := range stored {
			assert.True(t, strings.HasPrefix(o.Key, storage.FolderPhotos+"/"))
		}
	})

	t.Run("more than ten files", func(t *testing.T) {
		svc, _ := newMediaForTest(t)
		photos := make([]*domain.Upload, 11)
		for i := range photos {
			photos[i] = imageUpload(t, domain.FieldPhotos, 2, 2)
		}
		_, err := svc.UploadPhotos(ctx, photos)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc, _ := newMediaForTest(t)
		_, err := svc.UploadPhotos(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("non image in the batch", func(t *testing.T) {
		svc, store := newMediaForTest(t)
		_, err := svc.UploadPhotos(ctx, []*domain.Upload{imageUpload(t, domain.FieldPhotos, 2, 2), pdfUpload(10)})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
		assert.Empty(t, store.Keys())
	})

	t.Run("failure keeps earlier uploads", func(t *testing.T) {
		svc, store := newMediaForTest(t)
		puts := 0
		store.FailPut = func(string) error {
			puts++
			if puts == 2 {
				return errors.New("host unavailable")
			}
			return nil
		}

		stored, err := svc.UploadPhotos(ctx, []*domain.Upload{
			imageUpload(t, domain.FieldPhotos, 2, 2),
			imageUpload(t, domain.FieldPhotos, 3, 3),
			imageUpload(t, domain.FieldPhotos, 4, 4),
		})
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Len(t, stored, 1)
		assert.Len(t, store.Keys(), 1)
	})
}

func TestMediaService_DeleteEmptyKey(t *testing.T) {
	svc, _ := newMediaForTest(t)
	assert.NoError(t, svc.Delete(context.Background(), ""))
}
