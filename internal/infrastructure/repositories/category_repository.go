package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/neuraread/domain"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements domain.CategoryRepository using GORM
type CategoryRepositoryImpl struct {
	db *gorm.DB
}

// DBCategory is the persisted category. Name uniqueness is enforced by the index.
type DBCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DBCategory) TableName() string {
	return "book_categories"
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *domain.Category) error {
	row := &DBCategory{Name: category.Name}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateCategoryErr(err)
	}
	*category = *categoryToDomain(row)
	return nil
}

func (r *CategoryRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var row DBCategory
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateCategoryErr(err)
	}
	return categoryToDomain(&row), nil
}

func (r *CategoryRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var row DBCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, translateCategoryErr(err)
	}
	return categoryToDomain(&row), nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]domain.Category, error) {
	var rows []DBCategory
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryToDomain(&rows[i]))
	}
	return out, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&DBCategory{}).Where("id = ?", category.ID).
		Updates(map[string]any{"name": category.Name, "updated_at": time.Now()})
	if res.Error != nil {
		return translateCategoryErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	updated, err := r.FindByID(ctx, category.ID)
	if err != nil {
		return err
	}
	*category = *updated
	return nil
}

// Delete removes the category only. Books that reference it are left in place.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func translateCategoryErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrCategoryNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrCategoryExists
	default:
		return err
	}
}

func categoryToDomain(row *DBCategory) *domain.Category {
	return &domain.Category{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
