package mocks

import (
	"context"

	"github.com/you/neuraread/domain"
)

// MockStatsService implements domain.StatsService from fixed totals
type MockStatsService struct {
	Totals domain.Totals
	Users  []domain.User
	Err    error
}

func (m *MockStatsService) TotalUsers(context.Context) (int64, []domain.User, error) {
	return m.Totals.Users, m.Users, m.Err
}

func (m *MockStatsService) TotalContacts(context.Context) (int64, error) {
	return m.Totals.Contacts, m.Err
}

func (m *MockStatsService) TotalImages(context.Context) (int64, error) {
	return m.Totals.Images, m.Err
}

func (m *MockStatsService) TotalBooks(context.Context) (int64, error) {
	return m.Totals.Books, m.Err
}

func (m *MockStatsService) TotalCategories(context.Context) (int64, error) {
	return m.Totals.Categories, m.Err
}

func (m *MockStatsService) AverageBooksPerCategory(context.Context) (float64, error) {
	return domain.AverageBooksPerCategory(m.Totals.Books, m.Totals.Categories), m.Err
}

// Compile-time interface compliance verification
var _ domain.StatsService = (*MockStatsService)(nil)
