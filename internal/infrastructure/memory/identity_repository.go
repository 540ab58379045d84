// Package memory provides in-memory implementations of the persistence
// ports. They back the test suite and the seeded demo mode; production
// wiring swaps in the Mongo and Redis implementations without the core
// noticing.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// IdentityRepository stores identities in a map keyed by lowercased email.
// An optional latency makes demo mode behave like a remote backend.
type IdentityRepository struct {
	mu         sync.RWMutex
	byEmail    map[string]*domain.Identity
	latency    time.Duration
}

// RepoOption configures an IdentityRepository.
type RepoOption func(*IdentityRepository)

// WithLatency adds an artificial delay to every call.
func WithLatency(d time.Duration) RepoOption {
	return func(r *IdentityRepository) { r.latency = d }
}

func NewIdentityRepository(opts ...RepoOption) *IdentityRepository {
	r := &IdentityRepository{byEmail: make(map[string]*domain.Identity)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSeededIdentityRepository returns a repository preloaded with the two
// demo accounts (seeker@example.com and employer@example.com, secret
// "password123").
func NewSeededIdentityRepository(opts ...RepoOption) *IdentityRepository {
	r := NewIdentityRepository(opts...)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()

	seed := []*domain.Identity{
		{
			ID:    "1",
			Email: "seeker@example.com",
			Name:  "Demo Seeker",
			Role:  domain.RoleSeeker,
			Seeker: &domain.SeekerProfile{
				Title:      "Senior Full Stack Developer",
				Location:   "Tel Aviv",
				Experience: "7+ years",
				Skills:     []string{"React", "Node.js", "TypeScript", "Python"},
			},
			SecretHash: string(hash),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:    "2",
			Email: "employer@example.com",
			Name:  "Demo Employer",
			Role:  domain.RoleEmployer,
			Company: &domain.CompanyProfile{
				Name:     "Leading Tech Company",
				Size:     "50-100 employees",
				Industry: "Technology",
			},
			SecretHash: string(hash),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
	for _, identity := range seed {
		r.byEmail[emailKey(identity.Email)] = identity
	}
	return r
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return identity.Clone(), nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailKey(identity.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrIdentityExists
	}
	r.byEmail[key] = identity.Clone()
	return identity.Clone(), nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailKey(identity.Email)
	existing, ok := r.byEmail[key]
	if !ok || existing.ID != identity.ID {
		return nil, domain.ErrIdentityNotFound
	}
	// Role is immutable after creation.
	if existing.Role != identity.Role {
		return nil, domain.ErrInvalidRegistration
	}
	updated := identity.Clone()
	// The secret hash never travels with session snapshots; keep the
	// stored one unless the caller explicitly set a new hash.
	if updated.SecretHash == "" {
		updated.SecretHash = existing.SecretHash
	}
	r.byEmail[key] = updated
	return updated.Clone(), nil
}

func (r *IdentityRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.latency):
		return nil
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
