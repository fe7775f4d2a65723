package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	UserLogoutAllEvent    AuditEventType = "USER_LOGOUT_ALL"
	PasswordResetEvent    AuditEventType = "PASSWORD_RESET"

	// Authorization events
	AccessGrantedEvent AuditEventType = "ACCESS_GRANTED"
	AccessDeniedEvent  AuditEventType = "ACCESS_DENIED"

	// Catalog events
	CatalogChangeEvent AuditEventType = "CATALOG_CHANGED"
	UserDeletedEvent   AuditEventType = "USER_DELETED"
	RoleChangedEvent   AuditEventType = "ROLE_CHANGED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    uint                   `json:"user_id"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
	LogUserLogin(ctx context.Context, userID uint, email string, success bool, errMsg string) error
	LogUserRegistration(ctx context.Context, userID uint, email string) error
	LogLogoutAll(ctx context.Context, userID uint, tokenVersion int) error
	LogAccessAttempt(ctx context.Context, userID uint, resource, action string, granted bool, reason string) error
	// LogCatalogChange records an admin write; entity is "book" or "category"
	LogCatalogChange(ctx context.Context, actorID uint, entity, op string, entityID uint) error
}

// ClientContext represents client information extracted from HTTP request
type ClientContext struct {
	IPAddress string
	UserAgent string
}

type clientContextKey struct{}

// WithClientContext stores request client information on ctx
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, cc)
}

// ClientContextFrom returns the client information stored on ctx, if any
func ClientContextFrom(ctx context.Context) *ClientContext {
	cc, _ := ctx.Value(clientContextKey{}).(*ClientContext)
	return cc
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithClientContext sets client context information
func (e *AuditEvent) WithClientContext(cc *ClientContext) *AuditEvent {
	if cc != nil {
		e.IPAddress = cc.IPAddress
		e.UserAgent = cc.UserAgent
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}

type actorKey struct{}

// WithActorID records the authenticated user performing the request
func WithActorID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorIDFrom returns the authenticated user id, 0 when anonymous
func ActorIDFrom(ctx context.Context) uint {
	id, _ := ctx.Value(actorKey{}).(uint)
	return id
}
