package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/neuraread/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis persistence
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(notificationSvc domain.NotificationService, userRepo domain.UserRepository, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		redisClient:     redisClient,
		config:          config,
	}
}

func otpKeys(email string, userID uint) (otpKey, attemptsKey, resendKey string) {
	return fmt.Sprintf("otp:%s:%d", email, userID),
		fmt.Sprintf("otp:att:%s:%d", email, userID),
		fmt.Sprintf("otp:res:%s", email)
}

// Generate implements domain.OTPService. The code goes out by SMS when the
// user has a phone number, by e-mail otherwise.
func (s *OTPServiceImpl) Generate(ctx context.Context, email string, userID uint) (*domain.OTPRequest, error) {
	otpKey, attemptsKey, resendKey := otpKeys(email, userID)

	canResend, waitTime, err := s.CanResend(ctx, email)
	if err != nil {
		return nil, err
	}
	if !canResend {
		return nil, fmt.Errorf("%w: please wait %d seconds before requesting new OTP", domain.ErrOTPResendLimit, waitTime)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, otpKey, code, s.config.TTL)
	pipe.Set(ctx, attemptsKey, 0, s.config.TTL)
	pipe.Set(ctx, resendKey, 1, s.config.ResendWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}

	otpReq := &domain.OTPRequest{
		Email:     email,
		Code:      code,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}

	if err := s.deliver(ctx, email, userID, code); err != nil {
		s.redisClient.Del(ctx, otpKey, attemptsKey, resendKey)
		return nil, fmt.Errorf("failed to send OTP: %w", err)
	}

	return otpReq, nil
}

func (s *OTPServiceImpl) deliver(ctx context.Context, email string, userID uint, code string) error {
	message := fmt.Sprintf("Your NeuraRead password reset code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PhoneNo != "" {
		return s.notificationSvc.SendSMS(user.PhoneNo, message)
	}
	return s.notificationSvc.SendEmail(email, "Password reset code", message)
}

// Verify implements domain.OTPService with Redis persistence
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code string, userID uint) (bool, error) {
	otpKey, attemptsKey, _ := otpKeys(email, userID)

	// Increment attempts counter atomically
	attempts, err := s.redisClient.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey, attemptsKey)
		return false, domain.ErrOTPMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey).Result()
	if errors.Is(err, redis.Nil) {
		s.redisClient.Del(ctx, attemptsKey)
		return false, domain.ErrOTPNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	if storedCode != code {
		return false, domain.ErrOTPInvalid
	}

	// Success - single use
	s.redisClient.Del(ctx, otpKey, attemptsKey)
	return true, nil
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, email string) (bool, int64, error) {
	_, _, resendKey := otpKeys(email, 0)

	ttl, err := s.redisClient.TTL(ctx, resendKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure OTP code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)
	for i := range digits {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
