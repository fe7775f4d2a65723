package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/neuraread/domain"
	"gorm.io/gorm"
)

// BookRepositoryImpl implements domain.BookRepository using GORM
type BookRepositoryImpl struct {
	db *gorm.DB
}

// DBBook is the persisted book. CategoryID carries no foreign key constraint
// so deleting a category leaves its books readable.
type DBBook struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"size:512;not null"`
	Author          string    `gorm:"size:255"`
	CategoryID      uint      `gorm:"index;not null"`
	BookSecureURL   string    `gorm:"size:1024"`
	BookPublicURL   string    `gorm:"size:1024"`
	BookStorageKey  string    `gorm:"size:512"`
	CoverSecureURL  string    `gorm:"size:1024"`
	CoverPublicURL  string    `gorm:"size:1024"`
	CoverStorageKey string    `gorm:"size:512"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (DBBook) TableName() string {
	return "books"
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) domain.BookRepository {
	return &BookRepositoryImpl{db: db}
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *domain.Book) error {
	row := bookToDB(book)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*book = *bookToDomain(row)
	return nil
}

func (r *BookRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var row DBBook
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return bookToDomain(&row), nil
}

func (r *BookRepositoryImpl) List(ctx context.Context) ([]domain.Book, error) {
	var rows []DBBook
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(rows))
	for i := range rows {
		out = append(out, *bookToDomain(&rows[i]))
	}
	return out, nil
}

// Update writes every mutable column of book.
func (r *BookRepositoryImpl) Update(ctx context.Context, book *domain.Book) error {
	res := r.db.WithContext(ctx).Model(&DBBook{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":             book.Title,
		"author":            book.Author,
		"category_id":       book.CategoryID,
		"book_secure_url":   book.BookSecureURL,
		"book_public_url":   book.BookPublicURL,
		"book_storage_key":  book.BookStorageKey,
		"cover_secure_url":  book.CoverSecureURL,
		"cover_public_url":  book.CoverPublicURL,
		"cover_storage_key": book.CoverStorageKey,
		"updated_at":        time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	updated, err := r.FindByID(ctx, book.ID)
	if err != nil {
		return err
	}
	*book = *updated
	return nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBBook{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func bookToDB(b *domain.Book) *DBBook {
	return &DBBook{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		CategoryID:      b.CategoryID,
		BookSecureURL:   b.BookSecureURL,
		BookPublicURL:   b.BookPublicURL,
		BookStorageKey:  b.BookStorageKey,
		CoverSecureURL:  b.CoverSecureURL,
		CoverPublicURL:  b.CoverPublicURL,
		CoverStorageKey: b.CoverStorageKey,
	}
}

func bookToDomain(row *DBBook) *domain.Book {
	return &domain.Book{
		ID:              row.ID,
		Title:           row.Title,
		Author:          row.Author,
		CategoryID:      row.CategoryID,
		BookSecureURL:   row.BookSecureURL,
		BookPublicURL:   row.BookPublicURL,
		BookStorageKey:  row.BookStorageKey,
		CoverSecureURL:  row.CoverSecureURL,
		CoverPublicURL:  row.CoverPublicURL,
		CoverStorageKey: row.CoverStorageKey,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
