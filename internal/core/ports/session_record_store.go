package ports

import (
	"context"
	"errors"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// ErrNoRecord is returned by Load when no session record has been persisted
// for the store's owner. It is an expected condition, not a failure.
var ErrNoRecord = errors.New("no persisted session record")

// SessionRecordStore persists the single session record of one client.
// The session store is the only writer; readers always go through the
// in-memory session snapshot, never through this interface.
//
// Load returns domain.ErrCorruptedState when the persisted value cannot be
// decoded; callers are expected to Delete and fall back to anonymous.
type SessionRecordStore interface {
	Load(ctx context.Context) (*domain.Identity, error)
	Save(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context) error
}

// SessionRecordSource hands out per-owner record stores over a shared
// backend. Owner scopes the record to a known identity; Unbound returns a
// store for a client that has not authenticated yet — it binds itself to
// the identity on first Save.
type SessionRecordSource interface {
	Owner(identityID string) SessionRecordStore
	Unbound() SessionRecordStore
}
