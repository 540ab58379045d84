// Package metrics defines and registers all custom Prometheus metrics for
// the Jobox session API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jobox/jobox-api/internal/core/domain"
)

const namespace = "jobox"

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SignupsTotal counts signup attempts.
// Labels:
//   - role: requested role ("seeker" or "employer")
//   - outcome: "success" or "failure"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by role and outcome.",
	},
	[]string{"role", "outcome"},
)

// RouteDecisionsTotal counts access policy evaluations served over HTTP.
// Label:
//   - result: "allow" or "redirect"
var RouteDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_decisions_total",
		Help:      "Total number of route access decisions, by result.",
	},
	[]string{"result"},
)

// SessionEventsTotal counts session lifecycle events delivered by the
// event dispatcher.
// Labels:
//   - type: event type (login, signup, logout, restore, profile_update)
//   - state: resulting session state
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events, by type and resulting state.",
	},
	[]string{"type", "state"},
)

// ActiveSessions tracks the number of sessions currently authenticated in
// this process.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of authenticated sessions held by this process.",
	},
)

// SessionEventRecorder is the terminal sink of the session event
// dispatcher: it bumps counters and writes one audit log line per event.
type SessionEventRecorder struct {
	log zerolog.Logger
}

func NewSessionEventRecorder(log zerolog.Logger) *SessionEventRecorder {
	return &SessionEventRecorder{log: log}
}

func (r *SessionEventRecorder) Record(_ context.Context, event domain.SessionEvent) error {
	SessionEventsTotal.WithLabelValues(string(event.Type), string(event.State)).Inc()

	switch event.Type {
	case domain.EventLogin, domain.EventSignup:
		ActiveSessions.Inc()
	case domain.EventRestore:
		if event.State == domain.StateAuthenticated {
			ActiveSessions.Inc()
		}
	case domain.EventLogout:
		// Logout is idempotent; only a logout that actually ended an
		// authenticated session carries the identity.
		if event.IdentityID != "" {
			ActiveSessions.Dec()
		}
	}

	r.log.Info().
		Str("event", string(event.Type)).
		Str("identity_id", event.IdentityID).
		Str("role", string(event.Role)).
		Str("state", string(event.State)).
		Time("at", event.At).
		Msg("session event")
	return nil
}
