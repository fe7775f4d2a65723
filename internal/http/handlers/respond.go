package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// respondOK writes {status:"success", message, ...payload}
func respondOK(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{"status": "success", "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// respondError is the single place where domain errors become HTTP statuses.
// Unexpected errors are attached to the gin context for the request logger.
func respondError(c *gin.Context, err error) {
	code, message := classify(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondMessage(c, code, message)
}

func classify(err error) (int, string) {
	var ve *domain.ValidationError
	var tooBig *http.MaxBytesError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, domain.ErrCategoryExists):
		return http.StatusBadRequest, "Category name already exists"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound, "Book not found"
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, "Access Denied. No Token Provided."
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrRevokedToken):
		return http.StatusForbidden, "Invalid or Expired Token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access Denied. You are not an admin."

	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusBadRequest, "Invalid OTP code"
	case errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusBadRequest, "OTP has expired or was never requested"
	case errors.Is(err, domain.ErrOTPMaxAttempts):
		return http.StatusTooManyRequests, "Maximum attempts exceeded"
	case errors.Is(err, domain.ErrOTPResendLimit):
		return http.StatusTooManyRequests, err.Error()

	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "Invalid file format. Books must be PDF, TXT or DOCX and images must be images."
	case errors.Is(err, domain.ErrPayloadTooLarge), errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, "File size too large"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "Error uploading files to the media host"
	}
	return http.StatusInternalServerError, "Server Error"
}

// paramID parses a positive numeric route parameter
func paramID(c *gin.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError("", "Invalid "+label+" ID")
	}
	return uint(id), nil
}

// bindJSON binds the body and reports failures as validation errors
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
