// Package audit writes domain audit events through the service logger.
package audit

import (
	"context"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/logging"
)

// Logger implements domain.AuditLogger
type Logger struct {
	log logging.Logger
}

func NewLogger(log logging.Logger) domain.AuditLogger {
	return &Logger{log: log.With("component", "audit")}
}

func (a *Logger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event.IPAddress == "" {
		event.WithClientContext(domain.ClientContextFrom(ctx))
	}
	args := []any{"event", string(event.EventType), "user_id", event.UserID, "success", event.Success}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	if event.IPAddress != "" {
		args = append(args, "ip", event.IPAddress)
	}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}
	if event.ErrorMsg != "" {
		args = append(args, "error", event.ErrorMsg)
		a.log.Warn(ctx, "audit", args...)
		return nil
	}
	a.log.Info(ctx, "audit", args...)
	return nil
}

func (a *Logger) LogUserLogin(ctx context.Context, userID uint, email string, success bool, errMsg string) error {
	ev := domain.NewAuditEvent(domain.UserLoginEvent, userID).WithEmail(email)
	if !success {
		ev.EventType = domain.UserLoginFailureEvent
		ev.Success = false
		ev.ErrorMsg = errMsg
	}
	return a.LogEvent(ctx, ev)
}

func (a *Logger) LogUserRegistration(ctx context.Context, userID uint, email string) error {
	return a.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, userID).WithEmail(email))
}

func (a *Logger) LogLogoutAll(ctx context.Context, userID uint, tokenVersion int) error {
	return a.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutAllEvent, userID).
		WithMetadata("token_version", tokenVersion))
}

func (a *Logger) LogAccessAttempt(ctx context.Context, userID uint, resource, action string, granted bool, reason string) error {
	eventType := domain.AccessGrantedEvent
	if !granted {
		eventType = domain.AccessDeniedEvent
	}
	ev := domain.NewAuditEvent(eventType, userID).
		WithMetadata("resource", resource).
		WithMetadata("action", action)
	if !granted {
		ev.Success = false
		ev.ErrorMsg = reason
	}
	return a.LogEvent(ctx, ev)
}

func (a *Logger) LogCatalogChange(ctx context.Context, actorID uint, entity, op string, entityID uint) error {
	return a.LogEvent(ctx, domain.NewAuditEvent(domain.CatalogChangeEvent, actorID).
		WithMetadata("entity", entity).
		WithMetadata("op", op).
		WithMetadata("entity_id", entityID))
}
