package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Auth attempt kinds.
const (
	KindSignup     = "signup"
	KindLogin      = "login"
	KindAdminLogin = "admin_login"
	KindOAuth      = "oauth"
)

// Outcome labels.
const (
	OutcomeSuccess       = "success"
	OutcomeUnknownUser   = "unknown_user"
	OutcomeBadPassword   = "bad_password"
	OutcomeDuplicate     = "duplicate"
	OutcomeNotAdmin      = "not_admin"
	OutcomeNotConfigured = "not_configured"
	OutcomeNeedsLink     = "needs_link"
	OutcomeError         = "error"
)

// AuthAttempts counts signup and login attempts by kind and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "userportal_auth_attempts_total",
		Help: "Total number of authentication attempts",
	},
	[]string{"kind", "outcome"},
)

// AdminActions counts dashboard mutations by action.
var AdminActions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "userportal_admin_actions_total",
		Help: "Total number of admin user-management actions",
	},
	[]string{"action", "outcome"},
)

// RegisterMetrics registers the package metrics with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(AdminActions)
}

// RecordAuthAttempt increments the auth attempt counter.
func RecordAuthAttempt(kind, outcome string) {
	AuthAttempts.WithLabelValues(kind, outcome).Inc()
}

// RecordAdminAction increments the admin action counter.
func RecordAdminAction(action, outcome string) {
	AdminActions.WithLabelValues(action, outcome).Inc()
}
