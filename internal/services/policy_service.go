package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/neuraread/domain"
)

// casbinEnforcer adapts *casbin.Enforcer to domain.CasbinEnforcer
type casbinEnforcer struct {
	e *casbin.Enforcer
}

// NewCasbinEnforcerWrapper exposes the enforcer through the domain port
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &casbinEnforcer{e: enforcer}
}

func (w *casbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	return w.e.AddPolicy(params...)
}

func (w *casbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	return w.e.RemovePolicy(params...)
}

func (w *casbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	return w.e.Enforce(rvals...)
}

func (w *casbinEnforcer) GetPolicy() ([][]string, error) {
	return w.e.GetPolicy()
}

// SavePolicy is a no-op for enforcers built without an adapter
func (w *casbinEnforcer) SavePolicy() error {
	if w.e.GetAdapter() == nil {
		return nil
	}
	return w.e.SavePolicy()
}

// PolicyServiceImpl keeps the access gate's rules: one (role_<role>, path, method regex) triple each
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: NewCasbinEnforcerWrapper(enforcer)}
}

// NewPolicyServiceWithEnforcer is used by tests to swap in a fake enforcer
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy grants role access to resource for every method matching action
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	if err := validateRule(role, resource, action); err != nil {
		return err
	}
	if _, err := p.enforcer.AddPolicy(role, resource, action); err != nil {
		return fmt.Errorf("add policy: %w", err)
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy drops an exact rule; removing an unknown rule is not an error
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	if _, err := p.enforcer.RemovePolicy(role, resource, action); err != nil {
		return fmt.Errorf("remove policy: %w", err)
	}
	return p.enforcer.SavePolicy()
}

func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return policies, nil
}

func validateRule(role, resource, action string) error {
	if role != "role_"+domain.RoleAdmin && role != "role_"+domain.RoleUser {
		return domain.NewValidationError("sub", "must be role_admin or role_user")
	}
	if !strings.HasPrefix(resource, "/") {
		return domain.NewValidationError("obj", "must be an absolute path")
	}
	if _, err := regexp.Compile(action); err != nil {
		return domain.NewValidationError("act", "must be a valid method pattern")
	}
	return nil
}
