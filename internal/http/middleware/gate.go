package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/infrastructure/auth"
)

// AccessGate authorizes a verified user against the casbin policies
type AccessGate struct {
	users  domain.UserRepository
	policy domain.PolicyService
	audit  domain.AuditLogger
}

// NewAccessGate creates the role gate
func NewAccessGate(users domain.UserRepository, policy domain.PolicyService, audit domain.AuditLogger) *AccessGate {
	return &AccessGate{users: users, policy: policy, audit: audit}
}

// Enforce must run after AuthMW.Verify. The role is read from the store on
// every request so a demotion takes effect on tokens already issued.
func (g *AccessGate) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abort(c, http.StatusUnauthorized, MsgNoToken)
			return
		}
		ctx := c.Request.Context()

		role, err := g.users.FindRole(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				abort(c, http.StatusNotFound, MsgUserNotFound)
				return
			}
			abort(c, http.StatusInternalServerError, "Server Error")
			return
		}

		// Match against the route pattern, e.g. /api/v1/book-admin/get-book/:bookId
		resource := c.FullPath()
		if resource == "" {
			resource = c.Request.URL.Path
		}
		method := c.Request.Method

		allowed, err := g.policy.CheckPermission(auth.Subject(role), resource, method)
		if err != nil {
			_ = g.audit.LogAccessAttempt(ctx, userID, resource, method, false, err.Error())
			abort(c, http.StatusInternalServerError, "Authorization check failed")
			return
		}
		if !allowed {
			_ = g.audit.LogAccessAttempt(ctx, userID, resource, method, false, "role "+role)
			abort(c, http.StatusForbidden, MsgNotAdmin)
			return
		}

		_ = g.audit.LogAccessAttempt(ctx, userID, resource, method, true, "")
		c.Next()
	}
}
