package mocks

import (
	"context"
	"time"

	"github.com/you/neuraread/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	LoginFunc                func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LogoutAllFunc            func(ctx context.Context, userID uint) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, email, code, newPassword string) error
	GetUserProfileFunc       func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	// Default behavior: return a mock user
	return &domain.User{
		ID:        1,
		UserName:  in.UserName,
		Email:     in.Email,
		PhoneNo:   in.PhoneNo,
		Role:      domain.RoleUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.AuthResult{
		User:      &domain.User{ID: 1, Email: email, Role: domain.RoleUser},
		Token:     "token:1:0",
		ExpiresIn: 86400,
	}, nil
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID uint) error {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword)
	}
	return nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Email: "test@example.com", Role: domain.RoleUser}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
