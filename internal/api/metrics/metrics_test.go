package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/jobox/jobox-api/internal/core/domain"
)

func record(t *testing.T, r *SessionEventRecorder, event domain.SessionEvent) {
	t.Helper()
	event.At = time.Now().UTC()
	if err := r.Record(context.Background(), event); err != nil {
		t.Fatalf("record failed: %v", err)
	}
}

func TestSessionEventRecorder_ActiveSessions(t *testing.T) {
	r := NewSessionEventRecorder(zerolog.Nop())
	base := testutil.ToFloat64(ActiveSessions)

	record(t, r, domain.SessionEvent{
		Type:       domain.EventLogin,
		IdentityID: "id_1",
		Role:       domain.RoleSeeker,
		State:      domain.StateAuthenticated,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base+1 {
		t.Fatalf("login must raise the gauge: got %v, want %v", got, base+1)
	}

	record(t, r, domain.SessionEvent{
		Type:       domain.EventLogout,
		IdentityID: "id_1",
		Role:       domain.RoleSeeker,
		State:      domain.StateAnonymous,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base {
		t.Fatalf("logout must lower the gauge: got %v, want %v", got, base)
	}

	// A repeated logout for an already-anonymous caller carries no identity
	// and must not drive the gauge below its true value.
	record(t, r, domain.SessionEvent{
		Type:  domain.EventLogout,
		State: domain.StateAnonymous,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base {
		t.Fatalf("idempotent logout must not move the gauge: got %v, want %v", got, base)
	}
}

func TestSessionEventRecorder_RestoreCounts(t *testing.T) {
	r := NewSessionEventRecorder(zerolog.Nop())
	base := testutil.ToFloat64(ActiveSessions)

	record(t, r, domain.SessionEvent{
		Type:       domain.EventRestore,
		IdentityID: "id_2",
		Role:       domain.RoleEmployer,
		State:      domain.StateAuthenticated,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base+1 {
		t.Fatalf("authenticated restore must raise the gauge: got %v, want %v", got, base+1)
	}

	// A restore resolving anonymous is not a live session.
	record(t, r, domain.SessionEvent{
		Type:  domain.EventRestore,
		State: domain.StateAnonymous,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base+1 {
		t.Fatalf("anonymous restore must not move the gauge: got %v, want %v", got, base+1)
	}

	record(t, r, domain.SessionEvent{
		Type:       domain.EventLogout,
		IdentityID: "id_2",
		Role:       domain.RoleEmployer,
		State:      domain.StateAnonymous,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base {
		t.Fatalf("logout must lower the gauge: got %v, want %v", got, base)
	}

	// Profile edits do not change how many sessions are live.
	record(t, r, domain.SessionEvent{
		Type:       domain.EventProfileUpdate,
		IdentityID: "id_2",
		Role:       domain.RoleEmployer,
		State:      domain.StateAuthenticated,
	})
	if got := testutil.ToFloat64(ActiveSessions); got != base {
		t.Fatalf("profile update must not move the gauge: got %v, want %v", got, base)
	}
}
