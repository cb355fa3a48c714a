package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userportal/internal/errors"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/view"
)

// UserHandler serves the admin dashboard and user management actions.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// EditUserRequest is the edit form posted from the user page.
type EditUserRequest struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}

// RequireAdmin lets admin sessions through. Users are sent home and
// anonymous callers to the admin login page.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := session.FromContext(c).State
		switch {
		case state.IsAdmin():
			return next(c)
		case state.IsUser():
			return c.Redirect(http.StatusFound, "/")
		default:
			return c.Redirect(http.StatusFound, "/admin_login")
		}
	}
}

// Dashboard godoc
// @Summary List non-admin users
// @Tags admin
// @Produce html
// @Success 200 {string} string "dashboard page"
// @Success 302 {string} string "not an admin"
// @Failure 500 {object} errors.ErrorResponse
// @Router /Dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.Render(http.StatusOK, view.PageDashboard, view.DashboardPage{Users: users})
}

// ShowUser godoc
// The button query parameter names the user and is authoritative; the
// dashboard links to /user/manage?button=<name> so any name survives the
// URL. The path segment is only used when button is absent.
// @Summary Show a single user
// @Tags admin
// @Produce html
// @Param name path string true "User name, used only without button"
// @Param button query string false "Selected user name, authoritative"
// @Success 200 {string} string "user page"
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{name} [get]
func (h *UserHandler) ShowUser(c echo.Context) error {
	name := c.QueryParam("button")
	if name == "" {
		name = c.Param("name")
	}

	user, err := h.svc.GetUser(c.Request().Context(), name)
	if err != nil {
		return httpError(c, err)
	}
	return c.Render(http.StatusOK, view.PageUser, view.UserPage{User: user})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Accept x-www-form-urlencoded
// @Param name formData string true "User name"
// @Success 302 {string} string "redirect to /Dashboard"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/delete [post]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "name is required",
			Code:  "VALIDATION_FAILED",
		})
	}

	if _, err := h.svc.DeleteUser(c.Request().Context(), name); err != nil {
		return httpError(c, err)
	}
	return c.Redirect(http.StatusFound, "/Dashboard")
}

// EditUser godoc
// @Summary Rename the user registered under an email
// @Tags admin
// @Accept x-www-form-urlencoded
// @Param name formData string true "New name"
// @Param email formData string true "Email of the account"
// @Success 302 {string} string "redirect to /Dashboard"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/{edit} [post]
func (h *UserHandler) EditUser(c echo.Context) error {
	var req EditUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if _, err := h.svc.UpdateName(c.Request().Context(), req.Email, req.Name); err != nil {
		return httpError(c, err)
	}
	return c.Redirect(http.StatusFound, "/Dashboard")
}
