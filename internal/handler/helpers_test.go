package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"userportal/internal/auth"
	"userportal/internal/session"
	"userportal/internal/view"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

type testEnv struct {
	e        *echo.Echo
	store    *session.MemoryStore
	tokens   *auth.JWTService
	authSvc  *MockAuthService
	userSvc  *MockUserService
	provider *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	env := &testEnv{
		e:        echo.New(),
		store:    session.NewMemoryStore(time.Hour),
		tokens:   auth.NewJWTService("test-secret"),
		authSvc:  new(MockAuthService),
		userSvc:  new(MockUserService),
		provider: &fakeProvider{},
	}
	t.Cleanup(func() { _ = env.store.Close() })

	sessions := session.NewManager(env.store, env.tokens, time.Hour, false)
	authHandler := NewAuthHandler(env.authSvc, sessions, true)
	userHandler := NewUserHandler(env.userSvc)
	oauthHandler := NewOAuthHandler(env.provider, env.authSvc, env.tokens, sessions, false)

	env.e.Renderer = renderer
	env.e.Validator = &testValidator{validator: validator.New()}

	g := env.e.Group("", sessions.Middleware())
	g.GET("/", authHandler.Home)
	g.GET("/login", authHandler.ShowLogin)
	g.POST("/login", authHandler.Login)
	g.GET("/signup", authHandler.ShowSignup)
	g.POST("/signup", authHandler.Signup)
	g.GET("/logout", authHandler.Logout)
	g.GET("/admin_login", authHandler.ShowAdminLogin)
	g.POST("/admin_login", authHandler.AdminLogin)

	g.GET("/Dashboard", userHandler.Dashboard, RequireAdmin)
	g.GET("/user/:name", userHandler.ShowUser, RequireAdmin)
	g.POST("/user/delete", userHandler.DeleteUser, RequireAdmin)
	g.POST("/user/:edit", userHandler.EditUser, RequireAdmin)

	g.GET("/auth/google", oauthHandler.Begin)
	g.GET("/auth/google/callback", oauthHandler.Callback)
	g.POST("/auth/google/link", oauthHandler.Link)

	return env
}

// sessionFor stores state under a new session id and returns its cookie.
func (env *testEnv) sessionFor(t *testing.T, state session.State) *http.Cookie {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, env.store.Save(context.Background(), id, state, time.Hour))
	token, err := env.tokens.GenerateSessionToken(id, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (env *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return env.do(http.MethodGet, path, nil, cookies...)
}

func (env *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, path, form, cookies...)
}

func (env *testEnv) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// responseCookie returns the named cookie set by the response, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
