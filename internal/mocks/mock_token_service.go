package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/you/neuraread/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "token:<userID>:<version>" and validate back to
// the same claims.
type MockTokenService struct {
	GenerateTokenFunc func(userID uint, tokenVersion int) (string, error)
	ValidateTokenFunc func(token string) (*domain.TokenClaims, error)
	TTLValue          time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{TTLValue: 24 * time.Hour}
}

func (m *MockTokenService) GenerateToken(userID uint, tokenVersion int) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, tokenVersion)
	}
	return fmt.Sprintf("token:%d:%d", userID, tokenVersion), nil
}

func (m *MockTokenService) ValidateToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, domain.ErrInvalidToken
	}
	id, err1 := strconv.Atoi(parts[1])
	version, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return nil, domain.ErrInvalidToken
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		UserID:       uint(id),
		TokenVersion: version,
		IssuedAt:     now,
		ExpiresAt:    now + int64(m.TTL().Seconds()),
	}, nil
}

func (m *MockTokenService) TTL() time.Duration {
	if m.TTLValue == 0 {
		return 24 * time.Hour
	}
	return m.TTLValue
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
