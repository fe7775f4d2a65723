package mocks

import (
	"context"
	"time"

	"github.com/you/neuraread/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, email string, userID uint) (*domain.OTPRequest, error)
	VerifyFunc    func(ctx context.Context, email, code string, userID uint) (bool, error)
	CanResendFunc func(ctx context.Context, email string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Generate(ctx context.Context, email string, userID uint) (*domain.OTPRequest, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, email, userID)
	}
	// Default behavior: a fixed code
	return &domain.OTPRequest{
		Email:     email,
		Code:      "123456",
		UserID:    userID,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, email, code string, userID uint) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code, userID)
	}
	if code == "123456" {
		return true, nil
	}
	return false, domain.ErrOTPInvalid
}

func (m *MockOTPService) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, email)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
