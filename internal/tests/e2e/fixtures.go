package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/client"
)

// TestUser is a registered reader account
type TestUser struct {
	ID       uint
	UserName string
	Email    string
	PhoneNo  string
	Password string
}

// RegisterUser creates a reader through the public register endpoint
func (ts *TestServer) RegisterUser(t *testing.T, name string) TestUser {
	t.Helper()
	u := TestUser{
		UserName: name,
		Email:    name + "@readers.test",
		PhoneNo:  "+15550000001",
		Password: "reader-pass",
	}
	created, err := ts.NewClient().Register(context.Background(), client.Registration{
		UserName: u.UserName, Email: u.Email, PhoneNo: u.PhoneNo, Password: u.Password,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, created.Role)
	u.ID = created.ID
	return u
}

// Token logs u in over raw HTTP and returns the bearer token
func (ts *TestServer) Token(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := ts.Call(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// Call sends a JSON request with an optional bearer token and decodes the reply
func (ts *TestServer) Call(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.BaseURL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}
