package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// RBACModel matches a role subject against path patterns and a method regex
const RBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Subject turns a stored role marker into its casbin subject
func Subject(role string) string {
	return "role_" + role
}

// DefaultPolicies grants admins the whole API and regular users their own surface
func DefaultPolicies(apiBase string) [][]string {
	return [][]string{
		{Subject("admin"), apiBase + "/*", "(GET|POST|PUT|DELETE)"},
		{Subject("user"), apiBase + "/auth/*", "(GET|POST)"},
		{Subject("user"), apiBase + "/user/*", "(GET|POST)"},
	}
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through the gorm adapter
func NewCasbinService(db *gorm.DB) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(RBACModel)
	if err != nil {
		return nil, err
	}
	E, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

// NewMemoryEnforcer builds an enforcer with no adapter, seeded with policies
func NewMemoryEnforcer(policies [][]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(RBACModel)
	if err != nil {
		return nil, err
	}
	E, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		if _, err := E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	return E, nil
}

// SeedDefaults installs DefaultPolicies when the store holds none. It
// reports whether anything was written.
func (s *CasbinService) SeedDefaults(apiBase string) (bool, error) {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}
	for _, p := range DefaultPolicies(apiBase) {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, err
		}
	}
	return true, nil
}
