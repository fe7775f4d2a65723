package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/neuraread/internal/client"
	"github.com/you/neuraread/internal/client/store"
	"github.com/you/neuraread/internal/http/middleware"
)

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	ts := NewTestServer(t)
	reader := ts.RegisterUser(t, "ada")

	resp, body := ts.Call(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "  ADA@readers.test ", "password": reader.Password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	token := body["token"].(string)
	resp, body = ts.Call(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@readers.test", user["email"])
	assert.NotContains(t, user, "password")
}

func TestAuthFlow_DuplicateRegistration(t *testing.T) {
	ts := NewTestServer(t)
	reader := ts.RegisterUser(t, "bob")

	resp, body := ts.Call(t, http.MethodPost, "/auth/register", "", map[string]string{
		"userName": "bob2", "email": reader.Email, "password": "another1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["message"])
}

func TestAuthFlow_WrongPassword(t *testing.T) {
	ts := NewTestServer(t)
	reader := ts.RegisterUser(t, "cy")

	resp, body := ts.Call(t, http.MethodPost, "/auth/login", "", map[string]string{"email": reader.Email, "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])

	resp, unknown := ts.Call(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@readers.test", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, body["message"], unknown["message"], "unknown email and bad password must look the same")
}

func TestAuthFlow_LogoutAllRevokesIssuedTokens(t *testing.T) {
	ts := NewTestServer(t)
	reader := ts.RegisterUser(t, "dee")

	first := ts.Token(t, reader.Email, reader.Password)
	second := ts.Token(t, reader.Email, reader.Password)

	resp, _ := ts.Call(t, http.MethodPost, "/auth/logout-all", first, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, tok := range []string{first, second} {
		resp, body := ts.Call(t, http.MethodGet, "/auth/me", tok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, middleware.MsgInvalidToken, body["message"])
	}

	fresh := ts.Token(t, reader.Email, reader.Password)
	resp, _ = ts.Call(t, http.MethodGet, "/auth/me", fresh, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow_PasswordReset(t *testing.T) {
	ts := NewTestServer(t)
	reader := ts.RegisterUser(t, "eve")
	d := ts.NewClient()
	ctx := context.Background()

	require.NoError(t, d.ForgotPassword(ctx, reader.Email))
	msg := ts.SMS.Last()
	require.NotNil(t, msg)
	assert.Equal(t, reader.PhoneNo, msg.To)
	code := ts.SMS.LastCode(t)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := d.ResetPassword(ctx, reader.Email, wrong, "brand-new-pass")
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	assert.True(t, d.Store().State().Request(store.ResetPassword).Error)

	require.NoError(t, d.ResetPassword(ctx, reader.Email, code, "brand-new-pass"))

	// the code is single use
	err = d.ResetPassword(ctx, reader.Email, code, "other-pass")
	assert.Error(t, err)

	resp, _ := ts.Call(t, http.MethodPost, "/auth/login", "", map[string]string{"email": reader.Email, "password": reader.Password})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	ts.Token(t, reader.Email, "brand-new-pass")
}

func TestAuthFlow_ClientSessionCookie(t *testing.T) {
	ts := NewTestServer(t)
	d := ts.AdminClient(t)
	ctx := context.Background()

	admin, err := d.AdminProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, admin.Email)
	assert.True(t, d.Store().State().Auth.IsLoggedIn)

	require.NoError(t, d.Logout(ctx))
	assert.False(t, d.Store().State().Auth.IsLoggedIn)

	_, err = d.AdminProfile(ctx)
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, middleware.MsgNoToken, d.Store().State().Notification.Message)
}
