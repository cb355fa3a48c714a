package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"userportal/internal/auth"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "auth"

const (
	contextKey      = "session"
	tokenContextKey = "session_token"
)

// Session is the state bound to the current request.
type Session struct {
	id    string // empty until the session is persisted
	State State
}

// ID returns the persisted session id, or "" for an unsaved session.
func (s *Session) ID() string {
	return s.id
}

// Manager binds sessions to requests through the session cookie.
type Manager struct {
	store  Store
	tokens *auth.JWTService
	ttl    time.Duration
	secure bool
}

// NewManager creates a session manager. secure marks the cookie HTTPS-only.
func NewManager(store Store, tokens *auth.JWTService, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, tokens: tokens, ttl: ttl, secure: secure}
}

// Middleware parses the session cookie and loads its state into the request.
// Requests without a valid cookie proceed as anonymous.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	parseToken := echojwt.WithConfig(echojwt.Config{
		SigningKey:  m.tokens.SigningKey(),
		TokenLookup: "cookie:" + CookieName,
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parseToken(func(c echo.Context) error {
			c.Set(contextKey, m.load(c))
			return next(c)
		})
	}
}

func (m *Manager) load(c echo.Context) *Session {
	anonymous := &Session{State: Anonymous()}

	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok || !token.Valid {
		return anonymous
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.CheckPurpose(auth.PurposeSession) != nil {
		return anonymous
	}

	ctx := c.Request().Context()
	state, found, err := m.store.Load(ctx, claims.ID)
	if err != nil {
		slog.WarnContext(ctx, "session load failed", "error", err)
		return anonymous
	}
	if !found {
		return anonymous
	}
	return &Session{id: claims.ID, State: state}
}

// FromContext returns the session loaded by Middleware, or an anonymous
// session when the middleware did not run.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	return &Session{State: Anonymous()}
}

// Start binds state to a fresh session id, discarding any previous session,
// and issues the session cookie.
func (m *Manager) Start(c echo.Context, state State) error {
	ctx := c.Request().Context()

	if prev := FromContext(c); prev.id != "" {
		if err := m.store.Delete(ctx, prev.id); err != nil {
			slog.WarnContext(ctx, "discard previous session failed", "error", err)
		}
	}

	id := uuid.New().String()
	if err := m.store.Save(ctx, id, state, m.ttl); err != nil {
		return err
	}
	token, err := m.tokens.GenerateSessionToken(id, m.ttl)
	if err != nil {
		return err
	}

	c.SetCookie(m.cookie(token, int(m.ttl.Seconds()), time.Now().Add(m.ttl)))
	c.Set(contextKey, &Session{id: id, State: state})
	return nil
}

// Destroy deletes the session and clears the cookie. The request continues as
// anonymous even when the store delete fails; the error is returned for
// logging.
func (m *Manager) Destroy(c echo.Context) error {
	sess := FromContext(c)
	c.SetCookie(m.cookie("", -1, time.Unix(0, 0)))
	c.Set(contextKey, &Session{State: Anonymous()})

	if sess.id == "" {
		return nil
	}
	return m.store.Delete(c.Request().Context(), sess.id)
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
