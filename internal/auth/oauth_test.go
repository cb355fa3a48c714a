package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestProvider(t *testing.T, profile map[string]string, status int) *OAuthProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewOAuthProvider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
		Scopes: []string{"profile", "email"},
	}, srv.URL+"/userinfo")
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider(t, nil, http.StatusOK)

	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "profile email", u.Query().Get("scope"))
}

func TestOAuthProvider_Exchange(t *testing.T) {
	p := newTestProvider(t, map[string]string{"sub": "g-1", "name": "alice", "email": "a@example.com"}, http.StatusOK)

	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &ExternalProfile{Subject: "g-1", Name: "alice", Email: "a@example.com"}, profile)
}

func TestOAuthProvider_ExchangeFailures(t *testing.T) {
	t.Run("bad code", func(t *testing.T) {
		p := newTestProvider(t, map[string]string{"sub": "g-1"}, http.StatusOK)
		_, err := p.Exchange(context.Background(), "bad-code")
		assert.Error(t, err)
	})

	t.Run("userinfo error status", func(t *testing.T) {
		p := newTestProvider(t, map[string]string{"sub": "g-1"}, http.StatusInternalServerError)
		_, err := p.Exchange(context.Background(), "good-code")
		assert.Error(t, err)
	})

	t.Run("profile without subject", func(t *testing.T) {
		p := newTestProvider(t, map[string]string{"name": "alice"}, http.StatusOK)
		_, err := p.Exchange(context.Background(), "good-code")
		assert.Error(t, err)
	})
}
