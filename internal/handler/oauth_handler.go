package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"userportal/internal/auth"
	apperrors "userportal/internal/errors"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/view"
)

const stateCookieName = "oauth_state"

// OAuthHandler drives the Google login flow.
type OAuthHandler struct {
	provider    auth.IdentityProvider
	authService service.AuthService
	tokens      *auth.JWTService
	sessions    *session.Manager
	secure      bool
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(provider auth.IdentityProvider, authService service.AuthService, tokens *auth.JWTService, sessions *session.Manager, secure bool) *OAuthHandler {
	return &OAuthHandler{
		provider:    provider,
		authService: authService,
		tokens:      tokens,
		sessions:    sessions,
		secure:      secure,
	}
}

// LinkRequest confirms a pending account link.
type LinkRequest struct {
	Token    string `form:"token"`
	Password string `form:"password"`
}

// Begin godoc
// @Summary Start Google login
// @Tags oauth
// @Success 302 {string} string "redirect to the provider consent page"
// @Router /auth/google [get]
func (h *OAuthHandler) Begin(c echo.Context) error {
	state, err := h.tokens.GenerateStateToken()
	if err != nil {
		return httpError(c, err)
	}
	c.SetCookie(h.stateCookie(state, int(auth.StateTokenExpiry.Seconds())))
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback godoc
// @Summary Google login callback
// @Tags oauth
// @Produce html
// @Param code query string true "Authorization code"
// @Param state query string true "State token"
// @Success 200 {string} string "link account or continue to signup page"
// @Success 302 {string} string "redirect to / when logged in, /login on failure"
// @Router /auth/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	c.SetCookie(h.stateCookie("", -1))

	if reason := c.QueryParam("error"); reason != "" {
		slog.InfoContext(ctx, "provider denied login", "reason", reason)
		return c.Redirect(http.StatusFound, "/login")
	}

	state := c.QueryParam("state")
	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		slog.WarnContext(ctx, "oauth state does not match cookie")
		return c.Redirect(http.StatusFound, "/login")
	}
	if _, err := h.tokens.ValidateToken(state, auth.PurposeState); err != nil {
		slog.WarnContext(ctx, "invalid oauth state", "error", err)
		return c.Redirect(http.StatusFound, "/login")
	}

	profile, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		slog.WarnContext(ctx, "oauth exchange failed", "error", err)
		return c.Redirect(http.StatusFound, "/login")
	}

	res, err := h.authService.ResolveExternal(ctx, profile)
	if err != nil {
		return httpError(c, err)
	}

	switch res.Outcome {
	case service.ExternalLinked:
		if err := h.sessions.Start(c, session.User(res.User.Name)); err != nil {
			return httpError(c, err)
		}
		return c.Redirect(http.StatusFound, "/")
	case service.ExternalNeedsLink:
		return c.Render(http.StatusOK, view.PageLinkAccount, view.LinkAccountPage{
			Name:  res.User.Name,
			Token: res.LinkToken,
		})
	default:
		return c.Render(http.StatusOK, view.PageRedirectToSignup, view.SignupRedirectPage{Name: profile.Name})
	}
}

// Link godoc
// @Summary Link a Google identity to an existing account
// @Tags oauth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param token formData string true "Pending link token"
// @Param password formData string true "Account password"
// @Success 200 {string} string "link page with error message"
// @Success 302 {string} string "redirect to / once linked"
// @Router /auth/google/link [post]
func (h *OAuthHandler) Link(c echo.Context) error {
	var req LinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.authService.LinkExternal(c.Request().Context(), req.Token, req.Password)
	switch {
	case errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrUserNotFound):
		return c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, apperrors.ErrPasswordMismatch):
		claims, err := h.tokens.ValidateToken(req.Token, auth.PurposeLink)
		if err != nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return c.Render(http.StatusOK, view.PageLinkAccount, view.LinkAccountPage{
			Name:    claims.Name,
			Token:   req.Token,
			Message: msgPasswordIncorrect,
		})
	case err != nil:
		return httpError(c, err)
	}

	if err := h.sessions.Start(c, session.User(user.Name)); err != nil {
		return httpError(c, err)
	}
	slog.InfoContext(c.Request().Context(), "external identity linked", "user", user.Name)
	return c.Redirect(http.StatusFound, "/")
}

func (h *OAuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}
