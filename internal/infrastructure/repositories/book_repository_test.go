package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/you/neuraread/domain"
)

func TestBookRepositoryImpl_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	book := &domain.Book{
		Title:           "Dune",
		Author:          "Herbert",
		CategoryID:      1,
		BookSecureURL:   "https://cdn/books/dune.pdf",
		BookPublicURL:   "http://cdn/books/dune.pdf",
		BookStorageKey:  "books/dune.pdf",
		CoverSecureURL:  "https://cdn/book_covers/dune.jpg",
		CoverPublicURL:  "http://cdn/book_covers/dune.jpg",
		CoverStorageKey: "book_covers/dune.jpg",
	}
	if err := repo.Create(ctx, book); err != nil {
		t.Fatalf("create: %v", err)
	}
	if book.ID == 0 {
		t.Fatal("expected generated ID")
	}

	got, err := repo.FindByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.BookStorageKey != "books/dune.pdf" || got.CoverStorageKey != "book_covers/dune.jpg" {
		t.Errorf("storage keys not persisted: %+v", got)
	}

	got.Title = "Dune Messiah"
	got.CoverStorageKey = "book_covers/messiah.jpg"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Dune Messiah" || got.Author != "Herbert" || got.CoverStorageKey != "book_covers/messiah.jpg" {
		t.Errorf("update result mismatch: %+v", got)
	}

	second := &domain.Book{Title: "Emma", CategoryID: 2}
	_ = repo.Create(ctx, second)
	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != book.ID {
		t.Fatalf("expected two books in id order, got %v %+v", err, list)
	}

	if err := repo.Delete(ctx, book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, book.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookRepositoryImpl_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	if err := repo.Update(ctx, &domain.Book{ID: 42, Title: "x"}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("update: expected ErrBookNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 42); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("delete: expected ErrBookNotFound, got %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 0 {
		t.Errorf("expected empty list, got %v %+v", err, list)
	}
}
