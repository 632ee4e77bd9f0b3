package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/config"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/models"
)

// fakeSource stands in for the seed client. The mocks package cannot be
// used here since it depends on this package.
type fakeSource struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeSource) Fetch(ctx context.Context) ([]models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func seedUsers() []models.User {
	users := make([]models.User, 0, 10)
	for i := 0; i < 10; i++ {
		users = append(users, models.User{
			Name:  fmt.Sprintf("User Number%d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
	}
	return users
}

func newTestManager(source directory.Source) *Manager {
	cfg := config.SessionConfig{IdleTTL: time.Minute, ReapInterval: 10 * time.Millisecond, MaxSessions: 3}
	return NewManager(source, cfg, nil, zerolog.Nop())
}

func TestCreate_SeedsSession(t *testing.T) {
	source := &fakeSource{users: seedUsers()}
	m := newTestManager(source)

	s, dir, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("Expected UUID session id, got %q", s.ID)
	}
	if len(dir) != 10 {
		t.Errorf("Expected 10 records, got %d", len(dir))
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
}

func TestCreate_SeedFailureRegistersNothing(t *testing.T) {
	source := &fakeSource{err: errors.New("dial tcp: connection refused")}
	m := newTestManager(source)

	_, _, err := m.Create(context.Background())
	if !errors.Is(err, directory.ErrSourceUnavailable) {
		t.Fatalf("Expected ErrSourceUnavailable, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Expected no sessions, got %d", m.Count())
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	ctx := context.Background()

	a, _, _ := m.Create(ctx)
	b, _, _ := m.Create(ctx)

	err := a.Do(func(store *directory.Store) error {
		_, err := store.Insert("Jane Doe", "jane@doe.com")
		return err
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var lenA, lenB int
	a.Do(func(store *directory.Store) error { lenA = store.Len(); return nil })
	b.Do(func(store *directory.Store) error { lenB = store.Len(); return nil })

	if lenA != 11 {
		t.Errorf("Expected 11 records in session A, got %d", lenA)
	}
	if lenB != 10 {
		t.Errorf("Expected session B untouched with 10 records, got %d", lenB)
	}
}

func TestGet(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	s, _, _ := m.Create(context.Background())

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if _, err := m.Get(uuid.New().String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := m.Get("not-a-uuid"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("Expected ErrInvalidSessionID, got %v", err)
	}
}

func TestEnd(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	s, _, _ := m.Create(context.Background())

	if err := m.End(s.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ended session to be gone, got %v", err)
	}
	if err := m.End(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second End, got %v", err)
	}
	if err := m.End("bogus"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("Expected ErrInvalidSessionID, got %v", err)
	}
}

func TestReap_RemovesIdleSessions(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	idle, _, _ := m.Create(ctx)
	active, _, _ := m.Create(ctx)

	now = now.Add(45 * time.Second)
	m.Get(active.ID)

	now = now.Add(30 * time.Second)
	if removed := m.Reap(); removed != 1 {
		t.Errorf("Expected 1 session reaped, got %d", removed)
	}
	if _, err := m.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Idle session should have been reaped")
	}
	if _, err := m.Get(active.ID); err != nil {
		t.Error("Active session should survive")
	}
}

func TestCreate_MaxSessions(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := m.Create(ctx); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	if _, _, err := m.Create(ctx); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("Expected ErrTooManySessions, got %v", err)
	}

	// Once the others go idle there is room again
	now = now.Add(2 * time.Minute)
	if _, _, err := m.Create(ctx); err != nil {
		t.Errorf("Expected Create to succeed after reaping, got %v", err)
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
}

func TestReaper_StartStop(t *testing.T) {
	m := newTestManager(&fakeSource{users: seedUsers()})
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	m.Create(context.Background())

	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	go m.StartReaper(context.Background())

	deadline := time.After(2 * time.Second)
	for m.Count() != 0 {
		select {
		case <-deadline:
			t.Fatal("Reaper did not remove the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	m.StopReaper()
	// Stopping twice is a no-op
	m.StopReaper()
}
