package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userportal/internal/handler"
	"userportal/internal/logging"
	"userportal/internal/session"
)

// Register wires routes and middleware. oauthHandler may be nil, in which
// case the Google routes are not registered.
func Register(
	e *echo.Echo,
	sessions *session.Manager,
	gatherer prometheus.Gatherer,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	oauthHandler *handler.OAuthHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestContext)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Pages see the session of the cookie, anonymous if there is none.
	pages := e.Group("", sessions.Middleware())

	pages.GET("/", authHandler.Home)
	pages.GET("/login", authHandler.ShowLogin)
	pages.POST("/login", authHandler.Login)
	pages.GET("/signup", authHandler.ShowSignup)
	pages.POST("/signup", authHandler.Signup)
	pages.GET("/logout", authHandler.Logout)
	pages.GET("/admin_login", authHandler.ShowAdminLogin)
	pages.POST("/admin_login", authHandler.AdminLogin)

	// Admin routes. RequireAdmin is attached per route so unknown paths
	// still 404 instead of redirecting to the admin login.
	pages.GET("/Dashboard", userHandler.Dashboard, handler.RequireAdmin)
	pages.GET("/user/:name", userHandler.ShowUser, handler.RequireAdmin)
	pages.POST("/user/delete", userHandler.DeleteUser, handler.RequireAdmin)
	pages.POST("/user/:edit", userHandler.EditUser, handler.RequireAdmin)

	if oauthHandler != nil {
		pages.GET("/auth/google", oauthHandler.Begin)
		pages.GET("/auth/google/callback", oauthHandler.Callback)
		pages.POST("/auth/google/link", oauthHandler.Link)
	}
}

// requestContext copies the request id into the request context so handler
// logs carry it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
