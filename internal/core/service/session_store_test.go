package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

type stubIdentityRepo struct {
	mu         sync.Mutex
	byEmail    map[string]*domain.Identity
	findGate   chan struct{}
	updateGate chan struct{}
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byEmail: make(map[string]*domain.Identity)}
}

func (r *stubIdentityRepo) seed(identity *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail[identity.Email] = identity.Clone()
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	if r.findGate != nil {
		<-r.findGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return identity.Clone(), nil
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[identity.Email]; exists {
		return nil, domain.ErrIdentityExists
	}
	r.byEmail[identity.Email] = identity.Clone()
	return identity.Clone(), nil
}

func (r *stubIdentityRepo) Update(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if r.updateGate != nil {
		<-r.updateGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[identity.Email]; !ok {
		return nil, domain.ErrIdentityNotFound
	}
	r.byEmail[identity.Email] = identity.Clone()
	return identity.Clone(), nil
}

type stubRecordStore struct {
	mu        sync.Mutex
	identity  *domain.Identity
	corrupted bool
	saves     int
	deletes   int
}

func (s *stubRecordStore) Load(_ context.Context) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corrupted {
		return nil, domain.ErrCorruptedState
	}
	if s.identity == nil {
		return nil, ports.ErrNoRecord
	}
	return s.identity.Clone(), nil
}

func (s *stubRecordStore) Save(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity.Clone()
	s.saves++
	return nil
}

func (s *stubRecordStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.corrupted = false
	s.deletes++
	return nil
}

func hashSecret(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	return string(hash)
}

func seededSeeker(t *testing.T) *domain.Identity {
	t.Helper()
	return &domain.Identity{
		ID:    "id_1",
		Email: "seeker@example.com",
		Name:  "Demo Seeker",
		Role:  domain.RoleSeeker,
		Seeker: &domain.SeekerProfile{
			Title:      "Senior Full Stack Developer",
			Location:   "Tel Aviv",
			Experience: "7+ years",
			Skills:     []string{"React", "Go"},
		},
		SecretHash: hashSecret(t, "password123"),
	}
}

func newTestStore(t *testing.T) (*SessionStore, *stubIdentityRepo, *stubRecordStore) {
	t.Helper()
	repo := newStubIdentityRepo()
	records := &stubRecordStore{}
	store := NewSessionStore(repo, records, zerolog.Nop())
	return store, repo, records
}

func TestSessionStore_Restore_NoRecord(t *testing.T) {
	store, _, _ := newTestStore(t)

	session := store.Restore(context.Background())
	if session.State != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", session.State)
	}
}

func TestSessionStore_Restore_RoundTrip(t *testing.T) {
	store, _, records := newTestStore(t)
	identity := seededSeeker(t)
	identity.SecretHash = ""
	records.identity = identity.Clone()

	session := store.Restore(context.Background())
	if !session.Authenticated() {
		t.Fatalf("expected authenticated, got %s", session.State)
	}
	got := session.Identity
	if got.ID != identity.ID || got.Email != identity.Email || got.Name != identity.Name || got.Role != identity.Role {
		t.Fatalf("restored identity differs: %+v", got)
	}
	if got.Seeker == nil || got.Seeker.Location != "Tel Aviv" || len(got.Seeker.Skills) != 2 {
		t.Fatalf("restored profile differs: %+v", got.Seeker)
	}
}

func TestSessionStore_Restore_CorruptedRecord(t *testing.T) {
	store, _, records := newTestStore(t)
	records.corrupted = true

	session := store.Restore(context.Background())
	if session.State != domain.StateAnonymous {
		t.Fatalf("corrupted record must resolve anonymous, got %s", session.State)
	}
	if records.deletes != 1 {
		t.Fatalf("corrupted record must be cleared, deletes=%d", records.deletes)
	}
}

func TestSessionStore_Restore_IllFormedRecord(t *testing.T) {
	store, _, records := newTestStore(t)
	records.identity = &domain.Identity{ID: "id_x"} // missing email and role

	session := store.Restore(context.Background())
	if session.State != domain.StateAnonymous {
		t.Fatalf("ill-formed record must resolve anonymous, got %s", session.State)
	}
	if records.deletes != 1 {
		t.Fatalf("ill-formed record must be cleared, deletes=%d", records.deletes)
	}
}

func TestSessionStore_Login_Success(t *testing.T) {
	store, repo, records := newTestStore(t)
	repo.seed(seededSeeker(t))

	identity, err := store.Login(context.Background(), "seeker@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if identity.Role != domain.RoleSeeker {
		t.Fatalf("unexpected role: %s", identity.Role)
	}

	session := store.Current()
	if !session.Authenticated() {
		t.Fatalf("expected authenticated session, got %s", session.State)
	}
	if records.saves != 1 {
		t.Fatalf("login must persist the record exactly once, saves=%d", records.saves)
	}
}

func TestSessionStore_Login_WrongSecret(t *testing.T) {
	store, repo, records := newTestStore(t)
	repo.seed(seededSeeker(t))

	_, err := store.Login(context.Background(), "seeker@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.Current().State != domain.StateAnonymous {
		t.Fatalf("failed login must leave session anonymous")
	}
	if records.saves != 0 {
		t.Fatalf("failed login must not persist, saves=%d", records.saves)
	}
}

func TestSessionStore_Login_UnknownEmail(t *testing.T) {
	store, _, _ := newTestStore(t)

	// Unknown email and wrong secret are indistinguishable to the caller.
	_, err := store.Login(context.Background(), "ghost@example.com", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionStore_Login_EmptyInputs(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.seed(seededSeeker(t))

	if _, err := store.Login(context.Background(), "", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty email, got %v", err)
	}
	if _, err := store.Login(context.Background(), "seeker@example.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty secret, got %v", err)
	}
}

func TestSessionStore_Signup_Success(t *testing.T) {
	store, _, records := newTestStore(t)

	identity, err := store.Signup(context.Background(), ports.RegistrationInput{
		Email:  "new@example.com",
		Secret: "s3cret123",
		Name:   "New Seeker",
		Role:   domain.RoleSeeker,
		Title:  "Backend Engineer",
		Skills: []string{"Go"},
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if identity.ID == "" {
		t.Fatalf("expected generated id")
	}
	if identity.SecretHash == "s3cret123" {
		t.Fatalf("secret must be hashed")
	}
	if identity.Seeker == nil || identity.Company != nil {
		t.Fatalf("seeker signup must produce a seeker payload only")
	}
	if !store.Current().Authenticated() {
		t.Fatalf("signup must authenticate the session")
	}
	if records.saves != 1 {
		t.Fatalf("signup must persist once, saves=%d", records.saves)
	}
}

func TestSessionStore_Signup_Duplicate(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.seed(seededSeeker(t))

	_, err := store.Signup(context.Background(), ports.RegistrationInput{
		Email:  "seeker@example.com",
		Secret: "whatever1",
		Name:   "Imposter",
		Role:   domain.RoleSeeker,
	})
	if !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
	if store.Current().State != domain.StateAnonymous {
		t.Fatalf("failed signup must leave session anonymous")
	}
}

func TestSessionStore_Signup_InvalidInput(t *testing.T) {
	store, _, _ := newTestStore(t)

	cases := []ports.RegistrationInput{
		{Secret: "x", Name: "n", Role: domain.RoleSeeker},                            // missing email
		{Email: "a@b.com", Name: "n", Role: domain.RoleSeeker},                       // missing secret
		{Email: "a@b.com", Secret: "x", Role: domain.RoleSeeker},                     // missing name
		{Email: "a@b.com", Secret: "x", Name: "n", Role: domain.Role("admin")},      // unknown role
	}
	for i, input := range cases {
		if _, err := store.Signup(context.Background(), input); !errors.Is(err, domain.ErrInvalidRegistration) {
			t.Errorf("case %d: expected ErrInvalidRegistration, got %v", i, err)
		}
	}
}

func TestSessionStore_Logout_Idempotent(t *testing.T) {
	store, repo, records := newTestStore(t)
	repo.seed(seededSeeker(t))

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	store.Logout(context.Background())
	if store.Current().State != domain.StateAnonymous {
		t.Fatalf("expected anonymous after logout")
	}

	store.Logout(context.Background())
	if store.Current().State != domain.StateAnonymous {
		t.Fatalf("expected anonymous after second logout")
	}
	if records.identity != nil {
		t.Fatalf("logout must erase the persisted record")
	}
}

func TestSessionStore_UpdateProfile_MergesSingleField(t *testing.T) {
	store, repo, records := newTestStore(t)
	repo.seed(seededSeeker(t))

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	savesAfterLogin := records.saves

	location := "Haifa"
	updated, err := store.UpdateProfile(context.Background(), domain.ProfileUpdate{Location: &location})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Seeker.Location != "Haifa" {
		t.Fatalf("location not merged: %q", updated.Seeker.Location)
	}
	if updated.Seeker.Title != "Senior Full Stack Developer" {
		t.Fatalf("title must be untouched: %q", updated.Seeker.Title)
	}
	if updated.Role != domain.RoleSeeker {
		t.Fatalf("role must never change")
	}
	if records.saves != savesAfterLogin+1 {
		t.Fatalf("update must re-persist the record")
	}
}

func TestSessionStore_UpdateProfile_NotAuthenticated(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Restore(context.Background())

	location := "Haifa"
	_, err := store.UpdateProfile(context.Background(), domain.ProfileUpdate{Location: &location})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSessionStore_ConcurrentMutation_Rejected(t *testing.T) {
	repo := newStubIdentityRepo()
	repo.findGate = make(chan struct{})
	repo.seed(seededSeeker(t))
	records := &stubRecordStore{}
	store := NewSessionStore(repo, records, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "seeker@example.com", "password123")
		done <- err
	}()

	// Wait for the first login to hold the gate.
	for store.Current().State != domain.StateLoading {
		time.Sleep(time.Millisecond)
	}

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); !errors.Is(err, domain.ErrOperationInProgress) {
		t.Fatalf("expected ErrOperationInProgress, got %v", err)
	}

	close(repo.findGate)
	if err := <-done; err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if !store.Current().Authenticated() {
		t.Fatalf("first login must win the session")
	}
}

func TestSessionStore_ConcurrentUpdateProfile_Rejected(t *testing.T) {
	repo := newStubIdentityRepo()
	repo.seed(seededSeeker(t))
	records := &stubRecordStore{}
	store := NewSessionStore(repo, records, zerolog.Nop())

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	repo.updateGate = make(chan struct{})
	location := "Haifa"
	done := make(chan error, 1)
	go func() {
		_, err := store.UpdateProfile(context.Background(), domain.ProfileUpdate{Location: &location})
		done <- err
	}()
	for store.Current().State != domain.StateLoading {
		time.Sleep(time.Millisecond)
	}

	// The caller behind the in-flight update is still authenticated; the
	// overlap must read as a busy store, not as a lost session.
	title := "Staff Engineer"
	if _, err := store.UpdateProfile(context.Background(), domain.ProfileUpdate{Title: &title}); !errors.Is(err, domain.ErrOperationInProgress) {
		t.Fatalf("expected ErrOperationInProgress, got %v", err)
	}

	close(repo.updateGate)
	if err := <-done; err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	session := store.Current()
	if !session.Authenticated() || session.Identity.Seeker.Location != "Haifa" {
		t.Fatalf("first update must win the session: %+v", session)
	}
}

func TestSessionStore_StaleResultDiscardedAfterLogout(t *testing.T) {
	repo := newStubIdentityRepo()
	repo.findGate = make(chan struct{})
	repo.seed(seededSeeker(t))
	records := &stubRecordStore{}
	store := NewSessionStore(repo, records, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "seeker@example.com", "password123")
		done <- err
	}()
	for store.Current().State != domain.StateLoading {
		time.Sleep(time.Millisecond)
	}

	store.Logout(context.Background())
	close(repo.findGate)
	<-done

	if store.Current().State != domain.StateAnonymous {
		t.Fatalf("login resolving after logout must not resurrect the session, got %s", store.Current().State)
	}
}

func TestSessionStore_LoadingFlagDuringOperation(t *testing.T) {
	repo := newStubIdentityRepo()
	repo.findGate = make(chan struct{})
	repo.seed(seededSeeker(t))
	store := NewSessionStore(repo, &stubRecordStore{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "seeker@example.com", "password123")
		done <- err
	}()
	for store.Current().State != domain.StateLoading {
		time.Sleep(time.Millisecond)
	}

	close(repo.findGate)
	if err := <-done; err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if store.Current().State != domain.StateAuthenticated {
		t.Fatalf("loading must resolve to authenticated")
	}
}

func TestSessionStore_Subscribe(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.seed(seededSeeker(t))

	var mu sync.Mutex
	var states []domain.SessionState
	store.Subscribe(func(s domain.Session) {
		mu.Lock()
		states = append(states, s.State)
		mu.Unlock()
	})

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	store.Logout(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || states[0] != domain.StateAuthenticated || states[1] != domain.StateAnonymous {
		t.Fatalf("unexpected notifications: %v", states)
	}
}

func TestSessionStore_Current_ReturnsSnapshot(t *testing.T) {
	store, repo, _ := newTestStore(t)
	repo.seed(seededSeeker(t))

	if _, err := store.Login(context.Background(), "seeker@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	snapshot := store.Current()
	snapshot.Identity.Seeker.Location = "Eilat"

	if store.Current().Identity.Seeker.Location != "Tel Aviv" {
		t.Fatalf("mutating a snapshot must not affect the store")
	}
}
