package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/you/neuraread/domain"
)

const minPasswordLength = 6

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	audit       domain.AuditLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	audit domain.AuditLogger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		audit:       audit,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return nil
}

// Register implements domain.AuthService. Self-registered accounts always get the user role.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.UserName) == "" {
		return nil, domain.NewValidationError("userName", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("email", "is not a valid address")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// Check if user already exists
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordSvc.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		UserName:     strings.TrimSpace(in.UserName),
		Email:        email,
		PhoneNo:      strings.TrimSpace(in.PhoneNo),
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// The unique index catches a racing registration the pre-check missed
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.audit.LogUserRegistration(ctx, user.ID, user.Email)
	return user, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.audit.LogUserLogin(ctx, 0, email, false, "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		_ = s.audit.LogUserLogin(ctx, user.ID, email, false, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenSvc.GenerateToken(user.ID, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	_ = s.audit.LogUserLogin(ctx, user.ID, email, true, "")
	return &domain.AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.tokenSvc.TTL().Seconds()),
	}, nil
}

// LogoutAll implements domain.AuthService
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID uint) error {
	version, err := s.userRepo.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return err
	}
	_ = s.audit.LogLogoutAll(ctx, userID, version)
	return nil
}

// RequestPasswordReset implements domain.AuthService
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if _, err := s.otpSvc.Generate(ctx, user.Email, user.ID); err != nil {
		return err
	}
	return nil
}

// ResetPassword implements domain.AuthService. A successful reset revokes every issued token.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if code == "" {
		return domain.NewValidationError("otp", "is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.otpSvc.Verify(ctx, user.Email, code, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrOTPInvalid
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	version, err := s.userRepo.IncrementTokenVersion(ctx, user.ID)
	if err != nil {
		return err
	}

	_ = s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).
		WithEmail(user.Email).
		WithClientContext(domain.ClientContextFrom(ctx)).
		WithMetadata("token_version", version))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
