package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/infrastructure/imaging"
	"github.com/you/neuraread/internal/infrastructure/repositories"
	"github.com/you/neuraread/internal/infrastructure/storage"
	"github.com/you/neuraread/internal/logging"
	"github.com/you/neuraread/internal/mocks"
)

type catalogFixture struct {
	svc   domain.CatalogService
	store *storage.MemoryStore
	audit *mocks.MockAuditLogger
}

func createCatalogServiceForTest(t *testing.T) *catalogFixture {
	t.Helper()
	db := setupTestDB(t)
	store := storage.NewMemoryStore("media.test")
	audit := mocks.NewMockAuditLogger()
	media := NewMediaService(store, imaging.NewCoverTranscoder(), testMediaConfig())
	svc := NewCatalogService(
		repositories.NewCategoryRepository(db),
		repositories.NewBookRepository(db),
		media,
		audit,
		logging.NewNop(),
	)
	return &catalogFixture{svc: svc, store: store, audit: audit}
}

func (f *catalogFixture) newBook(t *testing.T, categoryID uint) *domain.Book {
	t.Helper()
	book, err := f.svc.CreateBook(context.Background(), domain.BookInput{
		Title:      "Dune",
		Author:     "Frank Herbert",
		CategoryID: categoryID,
		Book:       pdfUpload(256),
		Cover:      imageUpload(t, domain.FieldCover, 600, 900),
	})
	require.NoError(t, err)
	return book
}

func TestCatalogService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)

	cat, err := f.svc.CreateCategory(ctx, "  Fiction ")
	require.NoError(t, err)
	assert.Equal(t, "Fiction", cat.Name)
	assert.NotZero(t, cat.ID)

	_, err = f.svc.CreateCategory(ctx, "Fiction")
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = f.svc.CreateCategory(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	ctx = domain.WithActorID(ctx, 9)
	_, err = f.svc.CreateCategory(ctx, "Poetry")
	require.NoError(t, err)
	last := f.audit.Events[len(f.audit.Events)-1]
	assert.Equal(t, uint(9), last.UserID)
	assert.Equal(t, "category", last.Metadata["entity"])
}

func TestCatalogService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	fiction, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	poetry, err := f.svc.CreateCategory(ctx, "Poetry")
	require.NoError(t, err)

	tests := []struct {
		name          string
		id            uint
		newName       string
		expectedError error
	}{
		{name: "rename", id: fiction.ID, newName: "Novels"},
		{name: "same name on the same row", id: poetry.ID, newName: "Poetry"},
		{name: "name owned by another row", id: poetry.ID, newName: "Novels", expectedError: domain.ErrCategoryExists},
		{name: "missing category", id: 999, newName: "Drama", expectedError: domain.ErrCategoryNotFound},
		{name: "empty name", id: fiction.ID, newName: "", expectedError: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := f.svc.UpdateCategory(ctx, tt.id, tt.newName)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.newName, cat.Name)
		})
	}
}

func TestCatalogService_DeleteCategoryKeepsBooks(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	cat, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	book := f.newBook(t, cat.ID)

	require.NoError(t, f.svc.DeleteCategory(ctx, cat.ID))

	got, err := f.svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.CategoryID)

	books, err := f.svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, cat.ID), domain.ErrCategoryNotFound)
}

func TestCatalogService_CreateBook(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	cat, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)

	t.Run("stores both files", func(t *testing.T) {
		book := f.newBook(t, cat.ID)
		assert.NotEmpty(t, book.BookStorageKey)
		assert.NotEmpty(t, book.CoverStorageKey)
		assert.Equal(t, "https://media.test/"+book.CoverStorageKey, book.CoverSecureURL)
		_, ct, ok := f.store.Get(book.CoverStorageKey)
		require.True(t, ok)
		assert.Equal(t, "image/jpeg", ct)
	})

	tests := []struct {
		name          string
		input         func(t *testing.T) domain.BookInput
		expectedError error
	}{
		{
			name: "unknown category",
			input: func(t *testing.T) domain.BookInput {
				return domain.BookInput{Title: "T", Author: "A", CategoryID: 999, Book: pdfUpload(10), Cover: imageUpload(t, domain.FieldCover, 5, 5)}
			},
			expectedError: domain.ErrValidation,
		},
		{
			name: "missing files",
			input: func(*testing.T) domain.BookInput {
				return domain.BookInput{Title: "T", Author: "A", CategoryID: cat.ID}
			},
			expectedError: domain.ErrValidation,
		},
		{
			name: "missing title",
			input: func(t *testing.T) domain.BookInput {
				return domain.BookInput{Author: "A", CategoryID: cat.ID, Book: pdfUpload(10), Cover: imageUpload(t, domain.FieldCover, 5, 5)}
			},
			expectedError: domain.ErrValidation,
		},
		{
			name: "cover is not an image",
			input: func(*testing.T) domain.BookInput {
				return domain.BookInput{Title: "T", Author: "A", CategoryID: cat.ID, Book: pdfUpload(10), Cover: pdfUpload(10)}
			},
			expectedError: domain.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.store.Keys())
			_, err := f.svc.CreateBook(ctx, tt.input(t))
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Len(t, f.store.Keys(), before, "no blob may be left behind")
		})
	}
}

func TestCatalogService_CreateBook_CoverUploadFailsCleansUp(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	cat, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)

	f.store.FailPut = func(key string) error {
		if strings.HasPrefix(key, storage.FolderCovers+"/") {
			return errors.New("host unavailable")
		}
		return nil
	}

	_, err = f.svc.CreateBook(ctx, domain.BookInput{
		Title: "T", Author: "A", CategoryID: cat.ID,
		Book: pdfUpload(10), Cover: imageUpload(t, domain.FieldCover, 5, 5),
	})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, f.store.Keys())
}

func TestCatalogService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	cat, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	other, err := f.svc.CreateCategory(ctx, "Poetry")
	require.NoError(t, err)
	book := f.newBook(t, cat.ID)

	t.Run("partial fields keep the rest", func(t *testing.T) {
		updated, err := f.svc.UpdateBook(ctx, book.ID, domain.BookInput{Title: "Dune Messiah"})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.Equal(t, "Frank Herbert", updated.Author)
		assert.Equal(t, book.BookStorageKey, updated.BookStorageKey)
	})

	t.Run("category must exist", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, book.ID, domain.BookInput{CategoryID: 999})
		assert.ErrorIs(t, err, domain.ErrValidation)

		updated, err := f.svc.UpdateBook(ctx, book.ID, domain.BookInput{CategoryID: other.ID})
		require.NoError(t, err)
		assert.Equal(t, other.ID, updated.CategoryID)
	})

	t.Run("replacing the book file removes the old blob", func(t *testing.T) {
		oldKey := book.BookStorageKey
		updated, err := f.svc.UpdateBook(ctx, book.ID, domain.BookInput{Book: pdfUpload(99)})
		require.NoError(t, err)

		assert.NotEqual(t, oldKey, updated.BookStorageKey)
		_, _, stillThere := f.store.Get(oldKey)
		assert.False(t, stillThere)
		_, _, uploaded := f.store.Get(updated.BookStorageKey)
		assert.True(t, uploaded)
		_, _, coverKept := f.store.Get(updated.CoverStorageKey)
		assert.True(t, coverKept)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, 999, domain.BookInput{Title: "x"})
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestCatalogService_UpdateBook_OldBlobDeleteFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	categories := mocks.NewMockCategoryRepository()
	books := mocks.NewMockBookRepository()
	media := mocks.NewMockMediaService()
	books.FindByIDFunc = func(_ context.Context, id uint) (*domain.Book, error) {
		return &domain.Book{ID: id, Title: "Dune", BookStorageKey: "books/old.pdf"}, nil
	}
	media.DeleteFunc = func(context.Context, string) error { return errors.New("host unavailable") }

	svc := NewCatalogService(categories, books, media, mocks.NewMockAuditLogger(), logging.NewNop())
	updated, err := svc.UpdateBook(ctx, 1, domain.BookInput{Book: &domain.Upload{Field: domain.FieldBook, Filename: "new.pdf"}})

	require.NoError(t, err)
	assert.Equal(t, "book/new.pdf", updated.BookStorageKey)
	assert.Equal(t, []string{"books/old.pdf"}, media.Deleted)
}

func TestCatalogService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	f := createCatalogServiceForTest(t)
	cat, err := f.svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	book := f.newBook(t, cat.ID)

	require.NoError(t, f.svc.DeleteBook(ctx, book.ID))

	assert.Empty(t, f.store.Keys())
	_, err = f.svc.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	assert.ErrorIs(t, f.svc.DeleteBook(ctx, book.ID), domain.ErrBookNotFound)
}
