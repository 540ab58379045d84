package ports

import (
	"context"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// RegistrationInput carries the fields a signup requires. Role-specific
// fields outside the declared role are ignored.
type RegistrationInput struct {
	Email  string
	Secret string
	Name   string
	Role   domain.Role

	// Seeker fields.
	Title      string
	Location   string
	Experience string
	Skills     []string

	// Employer fields.
	CompanyName string
	CompanySize string
	Industry    string
}

// SessionStore is the single source of truth for the client's
// authentication state. Restore, Login, Signup and UpdateProfile suspend
// and hold the loading flag for their duration; Logout and Current never
// suspend. A mutating call issued while another is in flight is rejected
// with domain.ErrOperationInProgress.
type SessionStore interface {
	Restore(ctx context.Context) domain.Session
	Login(ctx context.Context, email, secret string) (*domain.Identity, error)
	Signup(ctx context.Context, input RegistrationInput) (*domain.Identity, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error)
	Current() domain.Session
	Subscribe(fn func(domain.Session))
}

// SessionService is the multi-client surface the HTTP shell consumes: the
// hub resolves each caller's SessionStore and forwards to it.
type SessionService interface {
	Login(ctx context.Context, email, secret string) (*domain.Identity, error)
	Signup(ctx context.Context, input RegistrationInput) (*domain.Identity, error)
	Logout(ctx context.Context, identityID string)
	UpdateProfile(ctx context.Context, identityID string, update domain.ProfileUpdate) (*domain.Identity, error)
	Session(ctx context.Context, identityID string) domain.Session
}

// SessionEventSink consumes session lifecycle events. Implementations must
// tolerate events for unknown identities (stale results are discarded, not
// applied).
type SessionEventSink interface {
	Record(ctx context.Context, event domain.SessionEvent) error
}
