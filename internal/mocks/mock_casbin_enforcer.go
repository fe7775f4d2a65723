package mocks

import "github.com/you/neuraread/domain"

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// By default it keeps an in-memory policy list and enforces exact matches.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error
	SaveCalls        int
	policies         [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with default behaviors
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

func toStrings(params []interface{}) []string {
	out := make([]string, len(params))
	for i, p := range params {
		if s, ok := p.(string); ok {
			out[i] = s
		}
	}
	return out
}

func (m *MockCasbinEnforcer) indexOf(policy []string) int {
	for i, p := range m.policies {
		if len(p) != len(policy) {
			continue
		}
		match := true
		for j := range p {
			if p[j] != policy[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	policy := toStrings(params)
	if len(policy) < 3 || m.indexOf(policy) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, policy)
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	i := m.indexOf(toStrings(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	return m.indexOf(toStrings(rvals)) >= 0, nil
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

func (m *MockCasbinEnforcer) SavePolicy() error {
	m.SaveCalls++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.policies = nil
	for _, p := range policies {
		m.policies = append(m.policies, append([]string(nil), p...))
	}
}
