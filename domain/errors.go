package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists: %w", ErrConflict)
)

// OTP errors
var (
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Token errors
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Authorization errors
var (
	ErrForbidden = errors.New("forbidden")
)

// Data errors
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrBookNotFound     = fmt.Errorf("book %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryExists   = fmt.Errorf("category name already exists: %w", ErrConflict)
)

// Media errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUpstream          = errors.New("upstream failure")
)

// ValidationError names the field that failed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
