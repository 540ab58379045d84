package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

// SessionRecordSource keeps persisted session records in a map, one slot
// per owner. Records round-trip through JSON so corruption behaves the
// same as in the Redis implementation and can be injected in tests.
type SessionRecordSource struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewSessionRecordSource() *SessionRecordSource {
	return &SessionRecordSource{records: make(map[string][]byte)}
}

// defaultOwner scopes the single-record case: a store obtained with
// NewSessionRecordStore behaves like the client-local `jobox_session` slot.
const defaultOwner = "jobox_session"

// NewSessionRecordStore returns a standalone single-slot record store.
func NewSessionRecordStore() ports.SessionRecordStore {
	return NewSessionRecordSource().Owner(defaultOwner)
}

func (s *SessionRecordSource) Owner(identityID string) ports.SessionRecordStore {
	return &boundRecords{source: s, owner: identityID}
}

func (s *SessionRecordSource) Unbound() ports.SessionRecordStore {
	return &boundRecords{source: s}
}

// Corrupt overwrites an owner's record with undecodable bytes. Test hook.
func (s *SessionRecordSource) Corrupt(identityID string) {
	s.mu.Lock()
	s.records[identityID] = []byte("{not-json")
	s.mu.Unlock()
}

func (s *SessionRecordSource) load(owner string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.records[owner]
	return raw, ok
}

func (s *SessionRecordSource) save(owner string, raw []byte) {
	s.mu.Lock()
	s.records[owner] = raw
	s.mu.Unlock()
}

func (s *SessionRecordSource) delete(owner string) {
	s.mu.Lock()
	delete(s.records, owner)
	s.mu.Unlock()
}

// boundRecords is the per-owner view over the shared map. An unbound view
// binds itself to the identity on first Save, mirroring the login flow
// where the owner is unknown until credentials resolve.
type boundRecords struct {
	source *SessionRecordSource
	mu     sync.Mutex
	owner  string
}

func (b *boundRecords) Load(_ context.Context) (*domain.Identity, error) {
	b.mu.Lock()
	owner := b.owner
	b.mu.Unlock()
	if owner == "" {
		return nil, ports.ErrNoRecord
	}
	raw, ok := b.source.load(owner)
	if !ok {
		return nil, ports.ErrNoRecord
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, domain.ErrCorruptedState
	}
	return &identity, nil
}

func (b *boundRecords) Save(_ context.Context, identity *domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	b.mu.Lock()
	if b.owner == "" {
		b.owner = identity.ID
	}
	owner := b.owner
	b.mu.Unlock()
	b.source.save(owner, raw)
	return nil
}

func (b *boundRecords) Delete(_ context.Context) error {
	b.mu.Lock()
	owner := b.owner
	b.mu.Unlock()
	if owner == "" {
		return nil
	}
	b.source.delete(owner)
	return nil
}
