package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/infrastructure/database"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory sqlite database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testMediaConfig() MediaConfig {
	return MediaConfig{MaxBookBytes: 5_000_000, MaxPhotoBytes: 20_000_000, MaxPhotos: 10}
}

func pdfUpload(size int) *domain.Upload {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{' '}, max(0, size-9))...)
	return &domain.Upload{Field: domain.FieldBook, Filename: "book.pdf", Data: data}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageUpload(t *testing.T, field domain.UploadField, w, h int) *domain.Upload {
	return &domain.Upload{Field: field, Filename: "img.png", Data: pngBytes(t, w, h)}
}
