package repositories

import (
	"context"

	"github.com/you/neuraread/domain"
	"gorm.io/gorm"
)

// StatsRepositoryImpl runs the dashboard count queries
type StatsRepositoryImpl struct {
	db *gorm.DB
}

// NewStatsRepository creates a stats repository over the same tables
func NewStatsRepository(db *gorm.DB) domain.StatsRepository {
	return &StatsRepositoryImpl{db: db}
}

func (r *StatsRepositoryImpl) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &DBUser{})
}

// CountContacts sums the synced contacts of every user
func (r *StatsRepositoryImpl) CountContacts(ctx context.Context) (int64, error) {
	return r.count(ctx, &DBContact{})
}

// CountImages sums the uploaded photos of every user
func (r *StatsRepositoryImpl) CountImages(ctx context.Context) (int64, error) {
	return r.count(ctx, &DBPhoto{})
}

func (r *StatsRepositoryImpl) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, &DBBook{})
}

func (r *StatsRepositoryImpl) CountCategories(ctx context.Context) (int64, error) {
	return r.count(ctx, &DBCategory{})
}

func (r *StatsRepositoryImpl) count(ctx context.Context, model any) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}
