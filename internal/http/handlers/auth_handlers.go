package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/http/middleware"
)

// CookieOptions controls the session cookie written on login
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookie  CookieOptions
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookie CookieOptions) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, cookie: cookie}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	UserName string `json:"userName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	PhoneNo  string `json:"phoneNo"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest starts the OTP reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the OTP reset flow
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandlers) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandlers) clearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		PhoneNo:  req.PhoneNo,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "User registered successfully", gin.H{"user": user})
}

// Login handles user login. A failed login never sets the cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(result.ExpiresIn)
	if h.cookie.MaxAge > 0 {
		maxAge = int(h.cookie.MaxAge.Seconds())
	}
	h.setCookie(c, result.Token, maxAge)
	respondOK(c, http.StatusOK, "Login successful", gin.H{
		"user":       result.User,
		"token":      result.Token,
		"expires_in": result.ExpiresIn,
	})
}

// Logout clears the cookie; other tokens of the user stay valid
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.clearCookie(c)
	respondOK(c, http.StatusOK, "Logged out successfully", nil)
}

// LogoutAll revokes every token issued to the caller
func (h *AuthHandlers) LogoutAll(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.authSvc.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	h.clearCookie(c)
	respondOK(c, http.StatusOK, "Logged out from all sessions", nil)
}

// Me handles getting user profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile fetched successfully", gin.H{"user": user})
}

// ForgotPassword sends a reset code to the account's phone or e-mail
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "OTP sent successfully", nil)
}

// ResetPassword verifies the code and replaces the password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	h.clearCookie(c)
	respondOK(c, http.StatusOK, "Password reset successfully", nil)
}
