package domain

import "time"

// SessionState represents the lifecycle state of the client session.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateLoading       SessionState = "loading"
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// validSessionTransitions defines the allowed state machine transitions.
// Loading is transient: it must always resolve to anonymous or authenticated.
var validSessionTransitions = map[SessionState][]SessionState{
	StateUninitialized: {StateLoading},
	StateLoading:       {StateAnonymous, StateAuthenticated},
	StateAnonymous:     {StateLoading, StateAnonymous},
	StateAuthenticated: {StateLoading, StateAnonymous},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is a read snapshot of the current authentication state. It wraps
// at most one Identity; Identity is non-nil exactly when State is
// StateAuthenticated.
type Session struct {
	State    SessionState `json:"state"`
	Identity *Identity    `json:"identity,omitempty"`
}

// Authenticated reports whether the session carries a well-formed identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity.WellFormed()
}

// Anonymous reports whether the session has resolved to no identity.
func (s Session) Anonymous() bool {
	return s.State == StateAnonymous
}

// Role returns the identity's role, or the empty Role for anonymous and
// loading sessions.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// SessionEventType labels a session lifecycle event.
type SessionEventType string

const (
	EventRestore       SessionEventType = "restore"
	EventLogin         SessionEventType = "login"
	EventSignup        SessionEventType = "signup"
	EventLogout        SessionEventType = "logout"
	EventProfileUpdate SessionEventType = "profile_update"
)

// SessionEvent records a single session state change for auditing and
// metrics. Events for the same identity are delivered in order.
type SessionEvent struct {
	Type       SessionEventType `json:"type"`
	IdentityID string           `json:"identity_id,omitempty"`
	Role       Role             `json:"role,omitempty"`
	State      SessionState     `json:"state"`
	At         time.Time        `json:"at"`
}
