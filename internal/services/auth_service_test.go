package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/mocks"
)

type authFixture struct {
	svc      domain.AuthService
	users    *mocks.MockUserRepository
	password *mocks.MockPasswordService
	tokens   *mocks.MockTokenService
	otp      *mocks.MockOTPService
	audit    *mocks.MockAuditLogger
}

func createAuthServiceForTest(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    mocks.NewMockUserRepository(),
		password: mocks.NewMockPasswordService(),
		tokens:   mocks.NewMockTokenService(),
		otp:      mocks.NewMockOTPService(),
		audit:    mocks.NewMockAuditLogger(),
	}
	f.svc = NewAuthService(f.users, f.password, f.tokens, f.otp, f.audit)
	return f
}

func storedUser() *domain.User {
	return &domain.User{
		ID:           1,
		UserName:     "reader",
		Email:        "reader@example.com",
		PasswordHash: "hashed_correct-horse",
		Role:         domain.RoleUser,
		TokenVersion: 2,
	}
}

func TestAuthServiceImpl_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         domain.RegisterInput
		setupMocks    func(*authFixture)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: domain.RegisterInput{UserName: "reader", Email: " Reader@Example.com ", PhoneNo: "+15550001111", Password: "secret123"},
		},
		{
			name:          "missing user name",
			input:         domain.RegisterInput{Email: "reader@example.com", Password: "secret123"},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "malformed email",
			input:         domain.RegisterInput{UserName: "reader", Email: "not-an-email", Password: "secret123"},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "short password",
			input:         domain.RegisterInput{UserName: "reader", Email: "reader@example.com", Password: "123"},
			expectedError: domain.ErrValidation,
		},
		{
			name:  "user already exists",
			input: domain.RegisterInput{UserName: "reader", Email: "reader@example.com", Password: "secret123"},
			setupMocks: func(f *authFixture) {
				f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return storedUser(), nil }
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
		{
			name:  "racing insert hits unique index",
			input: domain.RegisterInput{UserName: "reader", Email: "reader@example.com", Password: "secret123"},
			setupMocks: func(f *authFixture) {
				f.users.CreateFunc = func(context.Context, *domain.User) error { return domain.ErrUserAlreadyExists }
			},
			expectedError: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createAuthServiceForTest(t)
			var created *domain.User
			f.users.CreateFunc = func(_ context.Context, u *domain.User) error {
				u.ID = 10
				created = u
				return nil
			}
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			user, err := f.svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "reader@example.com", user.Email)
			assert.Equal(t, domain.RoleUser, user.Role)
			assert.Equal(t, "hashed_secret123", created.PasswordHash)
			assert.Equal(t, []domain.AuditEventType{domain.UserRegistrationEvent}, f.audit.Types())
		})
	}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*authFixture)
		expectedError error
		expectedAudit domain.AuditEventType
	}{
		{
			name:          "successful login carries the token version",
			email:         "reader@example.com",
			password:      "correct-horse",
			expectedAudit: domain.UserLoginEvent,
		},
		{
			name:          "wrong password",
			email:         "reader@example.com",
			password:      "wrong",
			expectedError: domain.ErrInvalidCredentials,
			expectedAudit: domain.UserLoginFailureEvent,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "correct-horse",
			setupMocks: func(f *authFixture) {
				f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return nil, domain.ErrUserNotFound }
			},
			expectedError: domain.ErrInvalidCredentials,
			expectedAudit: domain.UserLoginFailureEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createAuthServiceForTest(t)
			f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return storedUser(), nil }
			f.tokens.TTLValue = time.Hour
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			res, err := f.svc.Login(context.Background(), tt.email, tt.password)

			assert.Equal(t, []domain.AuditEventType{tt.expectedAudit}, f.audit.Types())
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token:1:2", res.Token)
			assert.Equal(t, int64(3600), res.ExpiresIn)
		})
	}
}

func TestAuthServiceImpl_Login_StoreFailure(t *testing.T) {
	f := createAuthServiceForTest(t)
	boom := errors.New("connection refused")
	f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return nil, boom }

	_, err := f.svc.Login(context.Background(), "reader@example.com", "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthServiceImpl_LogoutAll(t *testing.T) {
	f := createAuthServiceForTest(t)
	var bumped uint
	f.users.IncrementTokenVersionFunc = func(_ context.Context, id uint) (int, error) {
		bumped = id
		return 3, nil
	}

	require.NoError(t, f.svc.LogoutAll(context.Background(), 1))
	assert.Equal(t, uint(1), bumped)
	require.Len(t, f.audit.Events, 1)
	assert.Equal(t, 3, f.audit.Events[0].Metadata["token_version"])
}

func TestAuthServiceImpl_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("request sends an otp to the account", func(t *testing.T) {
		f := createAuthServiceForTest(t)
		f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return storedUser(), nil }
		var sentTo string
		f.otp.GenerateFunc = func(_ context.Context, email string, userID uint) (*domain.OTPRequest, error) {
			sentTo = email
			return &domain.OTPRequest{Email: email, UserID: userID, Code: "123456"}, nil
		}

		require.NoError(t, f.svc.RequestPasswordReset(ctx, "READER@example.com"))
		assert.Equal(t, "reader@example.com", sentTo)
	})

	t.Run("request for unknown account", func(t *testing.T) {
		f := createAuthServiceForTest(t)
		assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "ghost@example.com"), domain.ErrUserNotFound)
	})

	t.Run("reset replaces password and revokes tokens", func(t *testing.T) {
		f := createAuthServiceForTest(t)
		f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return storedUser(), nil }
		var newHash string
		f.users.UpdatePasswordFunc = func(_ context.Context, _ uint, hash string) error {
			newHash = hash
			return nil
		}
		bumps := 0
		f.users.IncrementTokenVersionFunc = func(context.Context, uint) (int, error) {
			bumps++
			return 3, nil
		}

		require.NoError(t, f.svc.ResetPassword(ctx, "reader@example.com", "123456", "brand-new"))
		assert.Equal(t, "hashed_brand-new", newHash)
		assert.Equal(t, 1, bumps)
		assert.Equal(t, []domain.AuditEventType{domain.PasswordResetEvent}, f.audit.Types())
	})

	t.Run("reset with a wrong code changes nothing", func(t *testing.T) {
		f := createAuthServiceForTest(t)
		f.users.FindByEmailFunc = func(context.Context, string) (*domain.User, error) { return storedUser(), nil }
		f.users.UpdatePasswordFunc = func(context.Context, uint, string) error {
			t.Error("password must not change")
			return nil
		}

		err := f.svc.ResetPassword(ctx, "reader@example.com", "999999", "brand-new")
		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	})

	t.Run("reset validates the new password first", func(t *testing.T) {
		f := createAuthServiceForTest(t)
		err := f.svc.ResetPassword(ctx, "reader@example.com", "123456", "x")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
