package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

// SessionStore owns the authenticated identity of one client. It is the
// only component allowed to mutate the identity or touch the persisted
// session record; everything else reads snapshots via Current.
//
// Mutating operations are serialized: a second Restore/Login/Signup/
// UpdateProfile issued while one is in flight is rejected with
// domain.ErrOperationInProgress. Logout is exempt — it never suspends and
// never fails; an in-flight operation that resolves after a Logout is
// discarded rather than applied to the newer session.
type SessionStore struct {
	repo    ports.IdentityRepository
	records ports.SessionRecordStore
	sink    ports.SessionEventSink
	logger  zerolog.Logger

	mu          sync.Mutex
	session     domain.Session
	busy        bool
	epoch       uint64
	subscribers []func(domain.Session)
}

// Option configures a SessionStore at construction time.
type Option func(*SessionStore)

// WithEventSink attaches a sink that receives one SessionEvent per state
// change. Delivery is best-effort; sink errors are logged, never surfaced.
func WithEventSink(sink ports.SessionEventSink) Option {
	return func(s *SessionStore) { s.sink = sink }
}

// NewSessionStore wires a store over its collaborators. Missing
// collaborators are a wiring bug: fail fast here, not at call time.
func NewSessionStore(repo ports.IdentityRepository, records ports.SessionRecordStore, logger zerolog.Logger, opts ...Option) *SessionStore {
	if repo == nil {
		panic("service: SessionStore requires an IdentityRepository")
	}
	if records == nil {
		panic("service: SessionStore requires a SessionRecordStore")
	}
	s := &SessionStore{
		repo:    repo,
		records: records,
		logger:  logger,
		session: domain.Session{State: domain.StateUninitialized},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the previously persisted identity, if any. A malformed or
// ill-formed record is cleared and the session resolves anonymous; no error
// ever reaches the caller. Intended to run once at startup.
func (s *SessionStore) Restore(ctx context.Context) domain.Session {
	epoch, err := s.begin()
	if err != nil {
		return s.Current()
	}

	identity, err := s.records.Load(ctx)
	switch {
	case err == nil && identity.WellFormed():
		s.finish(ctx, epoch, domain.StateAuthenticated, identity, domain.EventRestore)
	case errors.Is(err, ports.ErrNoRecord):
		s.finish(ctx, epoch, domain.StateAnonymous, nil, domain.EventRestore)
	default:
		// Corrupted or ill-formed record: fail safe to anonymous, never
		// fail open to a broken authenticated state.
		s.logger.Warn().Err(err).Msg("clearing unusable persisted session record")
		if delErr := s.records.Delete(ctx); delErr != nil {
			s.logger.Error().Err(delErr).Msg("failed to clear persisted session record")
		}
		s.finish(ctx, epoch, domain.StateAnonymous, nil, domain.EventRestore)
	}
	return s.Current()
}

// Login resolves the identity for the given credentials and persists it.
// A missing identity and a wrong secret both return
// domain.ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *SessionStore) Login(ctx context.Context, email, secret string) (*domain.Identity, error) {
	if email == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	epoch, err := s.begin()
	if err != nil {
		return nil, err
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.abort(epoch)
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.SecretHash), []byte(secret)) != nil {
		s.abort(epoch)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.records.Save(ctx, identity); err != nil {
		s.abort(epoch)
		return nil, err
	}

	s.finish(ctx, epoch, domain.StateAuthenticated, identity, domain.EventLogin)
	return identity.Clone(), nil
}

// Signup creates a fresh identity with a generated id, persists it, and
// authenticates the session with it. Duplicate emails fail with
// domain.ErrIdentityExists.
func (s *SessionStore) Signup(ctx context.Context, input ports.RegistrationInput) (*domain.Identity, error) {
	if input.Email == "" || input.Secret == "" || input.Name == "" || !input.Role.Valid() {
		return nil, domain.ErrInvalidRegistration
	}

	epoch, err := s.begin()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
	if err != nil {
		s.abort(epoch)
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		ID:         uuid.NewString(),
		Email:      input.Email,
		Name:       input.Name,
		Role:       input.Role,
		SecretHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	switch input.Role {
	case domain.RoleSeeker:
		identity.Seeker = &domain.SeekerProfile{
			Title:      input.Title,
			Location:   input.Location,
			Experience: input.Experience,
			Skills:     append([]string(nil), input.Skills...),
		}
	case domain.RoleEmployer:
		identity.Company = &domain.CompanyProfile{
			Name:     input.CompanyName,
			Size:     input.CompanySize,
			Industry: input.Industry,
		}
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		s.abort(epoch)
		return nil, err
	}

	if err := s.records.Save(ctx, created); err != nil {
		s.abort(epoch)
		return nil, err
	}

	s.finish(ctx, epoch, domain.StateAuthenticated, created, domain.EventSignup)
	return created.Clone(), nil
}

// Logout clears the identity and erases the persisted record. It is
// idempotent, never suspends, and always succeeds; any in-flight operation
// resolving afterwards is discarded as stale.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	prev := s.session
	s.session = domain.Session{State: domain.StateAnonymous}
	s.mu.Unlock()

	if err := s.records.Delete(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to erase persisted session record")
	}

	event := domain.SessionEvent{
		Type:  domain.EventLogout,
		State: domain.StateAnonymous,
		At:    time.Now().UTC(),
	}
	if prev.Identity != nil {
		event.IdentityID = prev.Identity.ID
		event.Role = prev.Identity.Role
	}
	s.emit(ctx, event)
	s.notify()
}

// UpdateProfile shallow-merges the partial role payload into the current
// identity and re-persists it. Role and payload shape never change.
func (s *SessionStore) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error) {
	s.mu.Lock()
	// Busy wins over the auth check: while an operation is in flight the
	// state reads as loading, and the caller behind it is still
	// authenticated.
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrOperationInProgress
	}
	if s.session.State != domain.StateAuthenticated {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	s.busy = true
	s.epoch++
	epoch := s.epoch
	s.session.State = domain.StateLoading
	current := s.session.Identity.Clone()
	s.mu.Unlock()

	current.ApplyProfileUpdate(update)

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.abort(epoch)
		return nil, err
	}

	if err := s.records.Save(ctx, updated); err != nil {
		s.abort(epoch)
		return nil, err
	}

	s.finish(ctx, epoch, domain.StateAuthenticated, updated, domain.EventProfileUpdate)
	return updated.Clone(), nil
}

// Current returns a read snapshot of the session. The identity is cloned;
// callers never hold a mutable reference to the store's copy.
func (s *SessionStore) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Session{State: s.session.State, Identity: s.session.Identity.Clone()}
}

// Subscribe registers a callback invoked after every session change. The
// callback receives a snapshot and must not call back into the store.
func (s *SessionStore) Subscribe(fn func(domain.Session)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// begin acquires the single-flight gate and enters the loading state.
func (s *SessionStore) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return 0, domain.ErrOperationInProgress
	}
	s.busy = true
	s.epoch++
	s.session.State = domain.StateLoading
	return s.epoch, nil
}

// finish resolves the loading state. A stale epoch means a Logout raced the
// operation: the result is dropped and the newer session stands.
func (s *SessionStore) finish(ctx context.Context, epoch uint64, state domain.SessionState, identity *domain.Identity, eventType domain.SessionEventType) {
	s.mu.Lock()
	s.busy = false
	if epoch != s.epoch {
		s.mu.Unlock()
		s.logger.Debug().Str("event", string(eventType)).Msg("discarding stale session result")
		return
	}
	s.session = domain.Session{State: state, Identity: identity}
	s.mu.Unlock()

	event := domain.SessionEvent{Type: eventType, State: state, At: time.Now().UTC()}
	if identity != nil {
		event.IdentityID = identity.ID
		event.Role = identity.Role
	}
	s.emit(ctx, event)
	s.notify()
}

// abort resolves a failed operation back to the pre-loading state without
// touching the identity.
func (s *SessionStore) abort(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if epoch != s.epoch {
		return
	}
	if s.session.Identity != nil {
		s.session.State = domain.StateAuthenticated
	} else {
		s.session.State = domain.StateAnonymous
	}
}

func (s *SessionStore) emit(ctx context.Context, event domain.SessionEvent) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event", string(event.Type)).Msg("failed to record session event")
	}
}

func (s *SessionStore) notify() {
	s.mu.Lock()
	subs := append([]func(domain.Session){}, s.subscribers...)
	snapshot := domain.Session{State: s.session.State, Identity: s.session.Identity.Clone()}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
