package services

import (
	"context"

	"github.com/you/neuraread/domain"
)

// StatsServiceImpl implements domain.StatsService
type StatsServiceImpl struct {
	stats domain.StatsRepository
	users domain.UserRepository
}

// NewStatsService creates a new stats service
func NewStatsService(stats domain.StatsRepository, users domain.UserRepository) domain.StatsService {
	return &StatsServiceImpl{stats: stats, users: users}
}

// TotalUsers implements domain.StatsService, returning the list the dashboard renders too
func (s *StatsServiceImpl) TotalUsers(ctx context.Context) (int64, []domain.User, error) {
	total, err := s.stats.CountUsers(ctx)
	if err != nil {
		return 0, nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, nil, err
	}
	return total, users, nil
}

func (s *StatsServiceImpl) TotalContacts(ctx context.Context) (int64, error) {
	return s.stats.CountContacts(ctx)
}

func (s *StatsServiceImpl) TotalImages(ctx context.Context) (int64, error) {
	return s.stats.CountImages(ctx)
}

func (s *StatsServiceImpl) TotalBooks(ctx context.Context) (int64, error) {
	return s.stats.CountBooks(ctx)
}

func (s *StatsServiceImpl) TotalCategories(ctx context.Context) (int64, error) {
	return s.stats.CountCategories(ctx)
}

// AverageBooksPerCategory implements domain.StatsService; 0 without categories
func (s *StatsServiceImpl) AverageBooksPerCategory(ctx context.Context) (float64, error) {
	books, err := s.stats.CountBooks(ctx)
	if err != nil {
		return 0, err
	}
	categories, err := s.stats.CountCategories(ctx)
	if err != nil {
		return 0, err
	}
	return domain.AverageBooksPerCategory(books, categories), nil
}
