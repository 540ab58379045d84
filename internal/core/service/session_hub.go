package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

// SessionHub manages one SessionStore per authenticated client. The HTTP
// shell resolves the caller's store by identity id; stores for clients not
// seen since process start are created lazily and restored from the
// persisted record, so a restart does not log anyone out.
type SessionHub struct {
	repo    ports.IdentityRepository
	records ports.SessionRecordSource
	sink    ports.SessionEventSink
	logger  zerolog.Logger

	mu     sync.Mutex
	stores map[string]*SessionStore
}

// NewSessionHub wires a hub over its collaborators. The sink may be nil.
func NewSessionHub(repo ports.IdentityRepository, records ports.SessionRecordSource, sink ports.SessionEventSink, logger zerolog.Logger) *SessionHub {
	if repo == nil {
		panic("service: SessionHub requires an IdentityRepository")
	}
	if records == nil {
		panic("service: SessionHub requires a SessionRecordSource")
	}
	return &SessionHub{
		repo:    repo,
		records: records,
		sink:    sink,
		logger:  logger,
		stores:  make(map[string]*SessionStore),
	}
}

// Login authenticates credentials through a fresh store and, on success,
// registers the store under the resolved identity.
func (h *SessionHub) Login(ctx context.Context, email, secret string) (*domain.Identity, error) {
	store := h.newStore(h.records.Unbound())
	identity, err := store.Login(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	h.register(identity.ID, store)
	return identity, nil
}

// Signup creates a new identity and registers its store.
func (h *SessionHub) Signup(ctx context.Context, input ports.RegistrationInput) (*domain.Identity, error) {
	store := h.newStore(h.records.Unbound())
	identity, err := store.Signup(ctx, input)
	if err != nil {
		return nil, err
	}
	h.register(identity.ID, store)
	return identity, nil
}

// Store returns the session store for the given identity, restoring it
// from the persisted record on first access after process start.
func (h *SessionHub) Store(ctx context.Context, identityID string) *SessionStore {
	h.mu.Lock()
	store, ok := h.stores[identityID]
	h.mu.Unlock()
	if ok {
		return store
	}

	store = h.newStore(h.records.Owner(identityID))
	store.Restore(ctx)

	h.mu.Lock()
	if existing, ok := h.stores[identityID]; ok {
		store = existing
	} else {
		h.stores[identityID] = store
	}
	h.mu.Unlock()
	return store
}

// Session returns the current session snapshot for the identity.
func (h *SessionHub) Session(ctx context.Context, identityID string) domain.Session {
	return h.Store(ctx, identityID).Current()
}

// Logout clears the identity's session and drops its store.
func (h *SessionHub) Logout(ctx context.Context, identityID string) {
	h.Store(ctx, identityID).Logout(ctx)
	h.mu.Lock()
	delete(h.stores, identityID)
	h.mu.Unlock()
}

// UpdateProfile merges the partial payload into the identity's profile.
func (h *SessionHub) UpdateProfile(ctx context.Context, identityID string, update domain.ProfileUpdate) (*domain.Identity, error) {
	return h.Store(ctx, identityID).UpdateProfile(ctx, update)
}

func (h *SessionHub) newStore(records ports.SessionRecordStore) *SessionStore {
	opts := []Option{}
	if h.sink != nil {
		opts = append(opts, WithEventSink(h.sink))
	}
	return NewSessionStore(h.repo, records, h.logger, opts...)
}

func (h *SessionHub) register(identityID string, store *SessionStore) {
	h.mu.Lock()
	h.stores[identityID] = store
	h.mu.Unlock()
}
