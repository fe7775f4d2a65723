package mocks

import (
	"context"
	"sync"

	"github.com/you/neuraread/domain"
)

// MockAuditLogger records every event it receives
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockAuditLogger) LogUserLogin(ctx context.Context, userID uint, email string, success bool, errMsg string) error {
	ev := domain.NewAuditEvent(domain.UserLoginEvent, userID).WithEmail(email)
	if !success {
		ev.EventType = domain.UserLoginFailureEvent
		ev.Success = false
		ev.ErrorMsg = errMsg
	}
	return m.LogEvent(ctx, ev)
}

func (m *MockAuditLogger) LogUserRegistration(ctx context.Context, userID uint, email string) error {
	return m.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, userID).WithEmail(email))
}

func (m *MockAuditLogger) LogLogoutAll(ctx context.Context, userID uint, tokenVersion int) error {
	return m.LogEvent(ctx, domain.NewAuditEvent(domain.UserLogoutAllEvent, userID).WithMetadata("token_version", tokenVersion))
}

func (m *MockAuditLogger) LogAccessAttempt(ctx context.Context, userID uint, resource, action string, granted bool, reason string) error {
	eventType := domain.AccessGrantedEvent
	if !granted {
		eventType = domain.AccessDeniedEvent
	}
	ev := domain.NewAuditEvent(eventType, userID).WithMetadata("resource", resource).WithMetadata("action", action)
	ev.Success = granted
	ev.ErrorMsg = reason
	return m.LogEvent(ctx, ev)
}

func (m *MockAuditLogger) LogCatalogChange(ctx context.Context, actorID uint, entity, op string, entityID uint) error {
	return m.LogEvent(ctx, domain.NewAuditEvent(domain.CatalogChangeEvent, actorID).
		WithMetadata("entity", entity).WithMetadata("op", op).WithMetadata("entity_id", entityID))
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.EventType)
	}
	return out
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
