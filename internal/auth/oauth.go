package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/samber/oops"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is the OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ExternalProfile is the identity asserted by a federation provider.
type ExternalProfile struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// IdentityProvider delegates authentication to an external OAuth provider.
type IdentityProvider interface {
	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (*ExternalProfile, error)
}

// OAuthProvider implements IdentityProvider for OAuth2 providers exposing an
// OpenID Connect style userinfo endpoint.
type OAuthProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

var _ IdentityProvider = (*OAuthProvider)(nil)

// NewGoogleProvider configures Google login with the profile and email scopes.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return NewOAuthProvider(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"profile", "email"},
	}, GoogleUserInfoURL)
}

// NewOAuthProvider builds a provider from an explicit client configuration.
func NewOAuthProvider(config *oauth2.Config, userInfoURL string) *OAuthProvider {
	return &OAuthProvider{config: config, userInfoURL: userInfoURL}
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, oops.Code("OAUTH_EXCHANGE_FAILED").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, oops.Code("OAUTH_PROFILE_FAILED").Wrap(err)
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, oops.Code("OAUTH_PROFILE_FAILED").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, oops.Code("OAUTH_PROFILE_FAILED").
			With("status", resp.StatusCode).
			Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile ExternalProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, oops.Code("OAUTH_PROFILE_FAILED").Wrap(fmt.Errorf("decode userinfo: %w", err))
	}
	if profile.Subject == "" {
		return nil, oops.Code("OAUTH_PROFILE_FAILED").Errorf("userinfo has no subject")
	}
	return &profile, nil
}
