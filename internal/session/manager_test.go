package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userportal/internal/auth"
)

type failingStore struct {
	Store
}

func (failingStore) Load(context.Context, string) (State, bool, error) {
	return State{}, false, errors.New("store down")
}

func newTestServer(t *testing.T, store Store, tokens *auth.JWTService) *echo.Echo {
	t.Helper()
	m := NewManager(store, tokens, time.Hour, false)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/start/:kind/:name", func(c echo.Context) error {
		state := User(c.Param("name"))
		if c.Param("kind") == "admin" {
			state = Admin(c.Param("name"))
		}
		if err := m.Start(c, state); err != nil {
			return err
		}
		return c.String(http.StatusOK, FromContext(c).ID())
	})
	e.GET("/whoami", func(c echo.Context) error {
		s := FromContext(c)
		return c.String(http.StatusOK, string(s.State.Kind)+":"+s.State.Name)
	})
	e.GET("/destroy", func(c echo.Context) error {
		if err := m.Destroy(c); err != nil {
			return err
		}
		return c.String(http.StatusOK, string(FromContext(c).State.Kind))
	})
	return e
}

func do(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestManager_AnonymousWithoutCookie(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	e := newTestServer(t, store, auth.NewJWTService("secret"))

	rec := do(e, "/whoami")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous:", rec.Body.String())
}

func TestManager_StartThenLoad(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	e := newTestServer(t, store, auth.NewJWTService("secret"))

	rec := do(e, "/start/user/alice")
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	rec = do(e, "/whoami", cookie)
	assert.Equal(t, "user:alice", rec.Body.String())
}

func TestManager_StartRotatesSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	e := newTestServer(t, store, auth.NewJWTService("secret"))

	first := do(e, "/start/user/alice")
	firstID := first.Body.String()

	second := do(e, "/start/admin/root", sessionCookie(t, first))
	assert.NotEqual(t, firstID, second.Body.String())

	_, found, _ := store.Load(context.Background(), firstID)
	assert.False(t, found, "previous session should be discarded")
	assert.Equal(t, 1, store.Len())
}

func TestManager_Destroy(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	e := newTestServer(t, store, auth.NewJWTService("secret"))

	cookie := sessionCookie(t, do(e, "/start/user/alice"))

	rec := do(e, "/destroy", cookie)
	assert.Equal(t, "anonymous", rec.Body.String())
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.Equal(t, 0, store.Len())

	// the old cookie no longer resolves
	rec = do(e, "/whoami", cookie)
	assert.Equal(t, "anonymous:", rec.Body.String())
}

func TestManager_RejectsForgedCookie(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	e := newTestServer(t, store, auth.NewJWTService("secret"))

	require.NoError(t, store.Save(context.Background(), "sid", Admin("root"), time.Hour))
	forged, err := auth.NewJWTService("attacker").GenerateSessionToken("sid", time.Hour)
	require.NoError(t, err)

	rec := do(e, "/whoami", &http.Cookie{Name: CookieName, Value: forged})
	assert.Equal(t, "anonymous:", rec.Body.String())
}

func TestManager_RejectsNonSessionToken(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	tokens := auth.NewJWTService("secret")
	e := newTestServer(t, store, tokens)

	state, err := tokens.GenerateStateToken()
	require.NoError(t, err)

	rec := do(e, "/whoami", &http.Cookie{Name: CookieName, Value: state})
	assert.Equal(t, "anonymous:", rec.Body.String())
}

func TestManager_StoreFailureIsAnonymous(t *testing.T) {
	tokens := auth.NewJWTService("secret")
	e := newTestServer(t, failingStore{}, tokens)

	token, err := tokens.GenerateSessionToken("sid", time.Hour)
	require.NoError(t, err)

	rec := do(e, "/whoami", &http.Cookie{Name: CookieName, Value: token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous:", rec.Body.String())
}
