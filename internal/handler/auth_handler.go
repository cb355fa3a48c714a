package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userportal/internal/errors"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/view"
)

// AuthHandler handles signup, login, home and logout pages.
type AuthHandler struct {
	authService   service.AuthService
	sessions      *session.Manager
	googleEnabled bool
}

// NewAuthHandler creates a new auth handler. googleEnabled adds the Google
// login link to the login page.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, googleEnabled bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, googleEnabled: googleEnabled}
}

// SignupRequest represents the signup form.
type SignupRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Email    string `form:"email"`
}

// LoginRequest represents the user and admin login forms.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ShowLogin godoc
// @Summary Login form
// @Tags auth
// @Produce html
// @Success 200 {string} string "login page"
// @Success 302 {string} string "already logged in, redirect to /"
// @Router /login [get]
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if session.FromContext(c).State.IsUser() {
		return c.Redirect(http.StatusFound, "/")
	}
	return h.renderLogin(c, "")
}

// Login godoc
// @Summary Log in a user
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {string} string "login page with error message"
// @Success 302 {string} string "redirect to / with session cookie"
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return h.renderLogin(c, msgCredentialsNeeded)
	}

	user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return h.renderLogin(c, msgUserNotFound)
	case errors.Is(err, apperrors.ErrPasswordMismatch):
		return h.renderLogin(c, msgPasswordIncorrect)
	case err != nil:
		return httpError(c, err)
	}

	if err := h.sessions.Start(c, session.User(user.Name)); err != nil {
		return httpError(c, err)
	}
	slog.InfoContext(c.Request().Context(), "user logged in", "user", user.Name)
	return c.Redirect(http.StatusFound, "/")
}

// ShowSignup godoc
// @Summary Signup form
// @Tags auth
// @Produce html
// @Success 200 {string} string "signup page"
// @Router /signup [get]
func (h *AuthHandler) ShowSignup(c echo.Context) error {
	if session.FromContext(c).State.IsUser() {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, view.PageSignup, view.FormPage{})
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param email formData string false "Email"
// @Success 200 {string} string "signup page with error message"
// @Success 302 {string} string "redirect to /login"
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, view.PageSignup, view.FormPage{Message: msgCredentialsNeeded})
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password, req.Email)
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return c.Render(http.StatusOK, view.PageSignup, view.FormPage{Message: msgUserExists})
	case errors.Is(err, apperrors.ErrPasswordTooLong):
		return c.Render(http.StatusOK, view.PageSignup, view.FormPage{Message: msgPasswordTooLong})
	}
	if err != nil {
		return httpError(c, err)
	}

	slog.InfoContext(c.Request().Context(), "user signed up", "user", user.Name)
	return c.Redirect(http.StatusFound, "/login")
}

// Home godoc
// @Summary Home page
// @Tags auth
// @Produce html
// @Success 200 {string} string "home page"
// @Success 302 {string} string "not logged in, redirect to /login"
// @Router / [get]
func (h *AuthHandler) Home(c echo.Context) error {
	state := session.FromContext(c).State
	switch {
	case state.IsUser():
		return c.Render(http.StatusOK, view.PageHome, view.HomePage{User: state.Name})
	case state.IsAdmin():
		return c.Render(http.StatusOK, view.PageHome, view.HomePage{User: state.Name, IsAdmin: true})
	}

	if name := c.QueryParam("user"); name != "" {
		slog.InfoContext(c.Request().Context(), "anonymous home request", "user", name)
	}
	return c.Redirect(http.StatusFound, "/login")
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Success 302 {string} string "redirect to /admin_login for admins, / otherwise"
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	state := session.FromContext(c).State
	if state.IsAnonymous() {
		return c.Redirect(http.StatusFound, "/")
	}

	if err := h.sessions.Destroy(c); err != nil {
		slog.WarnContext(c.Request().Context(), "destroy session failed", "user", state.Name, "error", err)
	}
	if state.IsAdmin() {
		return c.Redirect(http.StatusFound, "/admin_login")
	}
	return c.Redirect(http.StatusFound, "/")
}

// ShowAdminLogin godoc
// @Summary Admin login form
// @Tags admin
// @Produce html
// @Success 200 {string} string "admin login page"
// @Success 302 {string} string "already an admin, redirect to /Dashboard"
// @Router /admin_login [get]
func (h *AuthHandler) ShowAdminLogin(c echo.Context) error {
	if session.FromContext(c).State.IsAdmin() {
		return c.Redirect(http.StatusFound, "/Dashboard")
	}
	return c.Render(http.StatusOK, view.PageAdminLogin, view.FormPage{})
}

// AdminLogin godoc
// @Summary Log in as administrator
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Admin name"
// @Param password formData string true "Password"
// @Success 200 {string} string "admin login page with error message"
// @Success 302 {string} string "redirect to /Dashboard"
// @Failure 503 {string} string "no administrator account exists"
// @Router /admin_login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, view.PageAdminLogin, view.FormPage{Message: msgCredentialsNeeded})
	}

	admin, err := h.authService.AdminLogin(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, apperrors.ErrAdminNotConfigured):
		slog.ErrorContext(c.Request().Context(), "admin login attempted but no admin account exists")
		return c.Render(http.StatusServiceUnavailable, view.PageAdminLogin, view.FormPage{Message: msgAdminNotConfigured})
	case errors.Is(err, apperrors.ErrPasswordMismatch):
		return c.Render(http.StatusOK, view.PageAdminLogin, view.FormPage{Message: msgAdminPassword})
	case errors.Is(err, apperrors.ErrNotAdmin):
		return c.Render(http.StatusOK, view.PageAdminLogin, view.FormPage{Message: msgAdminOnly})
	case err != nil:
		return httpError(c, err)
	}

	if err := h.sessions.Start(c, session.Admin(admin.Name)); err != nil {
		return httpError(c, err)
	}
	slog.InfoContext(c.Request().Context(), "admin logged in", "admin", admin.Name)
	return c.Redirect(http.StatusFound, "/Dashboard")
}

func (h *AuthHandler) renderLogin(c echo.Context, message string) error {
	return c.Render(http.StatusOK, view.PageLogin, view.FormPage{Message: message, GoogleEnabled: h.googleEnabled})
}
