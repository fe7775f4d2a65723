package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// CookieName carries the session token for browser clients
const CookieName = "user_cred"

// Keys set on the gin context by the credential check
const (
	ContextUserID       = "user_id"
	ContextUserEmail    = "user_email"
	ContextTokenVersion = "token_version"
)

// Messages are part of the public contract; clients display them verbatim
const (
	MsgNoToken      = "Access Denied. No Token Provided."
	MsgInvalidToken = "Invalid or Expired Token"
	MsgUserNotFound = "User not found"
	MsgNotAdmin     = "Access Denied. You are not an admin."
)

// AuthMW wraps the token service and user repository for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	users    domain.UserRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, users domain.UserRepository) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc, users: users}
}

// TokenFromRequest reads the cookie first, then an Authorization: Bearer header
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Verify resolves the token into an identity. Every failure aborts the request;
// there is no refresh path.
func (mw *AuthMW) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := mw.Identify(c)
		if err != nil {
			if errors.Is(err, domain.ErrMissingToken) {
				abort(c, http.StatusUnauthorized, MsgNoToken)
				return
			}
			if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrRevokedToken) || errors.Is(err, domain.ErrUserNotFound) {
				abort(c, http.StatusForbidden, MsgInvalidToken)
				return
			}
			abort(c, http.StatusInternalServerError, "Server Error")
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextUserEmail, id.Email)
		c.Set(ContextTokenVersion, id.TokenVersion)
		c.Request = c.Request.WithContext(domain.WithActorID(c.Request.Context(), id.UserID))
		c.Next()
	}
}

// Identify runs the credential check without touching the response.
// The token version must equal the stored one, so a bump revokes every older token.
func (mw *AuthMW) Identify(c *gin.Context) (*domain.Identity, error) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	claims, err := mw.tokenSvc.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	id, err := mw.users.FindIdentity(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if id.TokenVersion != claims.TokenVersion {
		return nil, domain.ErrRevokedToken
	}
	return id, nil
}

// UserID returns the verified user id set by Verify
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}
