package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"shopmydish/domain"
	"shopmydish/internal/testutil"
	"shopmydish/internal/utils/cache"
	"shopmydish/pkg/jwt"
	"shopmydish/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTenant(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.IdentityClaims{Subject: "auth0|7", Nickname: "cook", Email: "cook@example.com"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, tenant string) (AuthService, jwt.JWTService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	jwtService := jwt.NewJWTService("secret", time.Hour)
	svc := NewAuthService(ProviderConfig{
		Domain:       tenant,
		ClientID:     "client",
		ClientSecret: "shh",
		CallbackURL:  "http://localhost:8080/auth/callback",
	}, cache.NewMemoryStorage(), user.NewUserService(user.NewUserRepository(db)), jwtService)
	return svc, jwtService
}

func stateOf(t *testing.T, loginURL string) string {
	t.Helper()
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestLoginAndCallback(t *testing.T) {
	tenant := fakeTenant(t)
	svc, jwtService := newService(t, tenant.URL)
	ctx := context.Background()

	loginURL, err := svc.LoginURL(ctx)
	require.NoError(t, err)
	assert.Contains(t, loginURL, tenant.URL+"/authorize?")
	assert.Contains(t, loginURL, "client_id=client")
	state := stateOf(t, loginURL)
	require.NotEmpty(t, state)

	res, err := svc.Callback(ctx, "good-code", state)
	require.NoError(t, err)
	assert.Equal(t, "cook", res.User.Username)

	userID, err := jwtService.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), userID)

	_, err = svc.Callback(ctx, "good-code", state)
	assert.ErrorIs(t, err, domain.ErrValidation, "state is single use")
}

func TestCallbackRejects(t *testing.T) {
	tenant := fakeTenant(t)
	svc, _ := newService(t, tenant.URL)
	ctx := context.Background()

	_, err := svc.Callback(ctx, "good-code", "forged")
	assert.ErrorIs(t, err, domain.ErrAuthStateInvalid)

	loginURL, err := svc.LoginURL(ctx)
	require.NoError(t, err)
	_, err = svc.Callback(ctx, "", stateOf(t, loginURL))
	assert.ErrorIs(t, err, domain.ErrAuthCodeMissing)

	loginURL, err = svc.LoginURL(ctx)
	require.NoError(t, err)
	_, err = svc.Callback(ctx, "bad-code", stateOf(t, loginURL))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestLogoutURL(t *testing.T) {
	svc, _ := newService(t, "tenant.eu.auth0.com")
	got := svc.LogoutURL("http://localhost:8080/")
	assert.Equal(t, "https://tenant.eu.auth0.com/v2/logout?client_id=client&returnTo=http%3A%2F%2Flocalhost%3A8080%2F", got)
}
