package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionRecordSource persists session records in Redis.
// Key format: jobox_session:<identity_id> holds the serialized identity;
// a companion jobox_logged_in:<identity_id> flag allows cheap boolean
// checks without decoding the record.
type SessionRecordSource struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRecordSource wraps the given Redis client. A non-positive ttl
// falls back to defaultSessionTTL.
func NewSessionRecordSource(client *redis.Client, ttl time.Duration) *SessionRecordSource {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRecordSource{client: client, ttl: ttl}
}

// Owner returns a record store scoped to a known identity.
func (s *SessionRecordSource) Owner(identityID string) ports.SessionRecordStore {
	return &ownerRecords{source: s, owner: identityID}
}

// Unbound returns a record store for a client that has not authenticated
// yet; it binds to the identity on first Save.
func (s *SessionRecordSource) Unbound() ports.SessionRecordStore {
	return &ownerRecords{source: s}
}

// IsLoggedIn reports the companion flag for an identity without loading
// the full record.
func (s *SessionRecordSource) IsLoggedIn(ctx context.Context, identityID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.flagKey(identityID)).Result()
	if err != nil {
		return false, fmt.Errorf("logged-in check: %w", err)
	}
	return n > 0, nil
}

func (s *SessionRecordSource) load(ctx context.Context, owner string) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, s.sessionKey(owner)).Bytes()
	if err == redis.Nil {
		return nil, ports.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, domain.ErrCorruptedState
	}
	return &identity, nil
}

func (s *SessionRecordSource) save(ctx context.Context, owner string, identity *domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(owner), raw, s.ttl)
	pipe.Set(ctx, s.flagKey(owner), "1", s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *SessionRecordSource) delete(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.sessionKey(owner), s.flagKey(owner)).Err(); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

func (s *SessionRecordSource) sessionKey(owner string) string {
	return "jobox_session:" + owner
}

func (s *SessionRecordSource) flagKey(owner string) string {
	return "jobox_logged_in:" + owner
}

// ownerRecords is the per-owner view handed to a session store.
type ownerRecords struct {
	source *SessionRecordSource
	mu     sync.Mutex
	owner  string
}

func (r *ownerRecords) Load(ctx context.Context) (*domain.Identity, error) {
	r.mu.Lock()
	owner := r.owner
	r.mu.Unlock()
	if owner == "" {
		return nil, ports.ErrNoRecord
	}
	return r.source.load(ctx, owner)
}

func (r *ownerRecords) Save(ctx context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	if r.owner == "" {
		r.owner = identity.ID
	}
	owner := r.owner
	r.mu.Unlock()
	return r.source.save(ctx, owner, identity)
}

func (r *ownerRecords) Delete(ctx context.Context) error {
	r.mu.Lock()
	owner := r.owner
	r.mu.Unlock()
	if owner == "" {
		return nil
	}
	return r.source.delete(ctx, owner)
}
