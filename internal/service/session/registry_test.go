package session_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	model "github.com/cloudy-assistant/backend/internal/model/session"
	session "github.com/cloudy-assistant/backend/internal/service/session"
)

func TestRegistryCreateAndGet(t *testing.T) {
	reg := session.NewRegistry()

	created, err := reg.Create("s1", "u1", "room-s1", map[string]string{"language": "en"})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if created.State != model.StateCreated {
		t.Fatalf("expected created state, got %s", created.State)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := reg.Get("s1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.UserID != "u1" || got.RoomName != "room-s1" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Config["language"] != "en" {
		t.Fatalf("config not preserved: %v", got.Config)
	}
}

func TestRegistryCreateDuplicate(t *testing.T) {
	reg := session.NewRegistry()

	if _, err := reg.Create("s1", "u1", "room-s1", nil); err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if _, err := reg.Create("s1", "u2", "room-other", nil); !errors.Is(err, session.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}

	// The original session must be untouched.
	got, err := reg.Get("s1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("existing session was overwritten: %+v", got)
	}
}

func TestRegistryGetNotFound(t *testing.T) {
	reg := session.NewRegistry()
	if _, err := reg.Get("missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	reg := session.NewRegistry()

	if _, err := reg.Create("s1", "u1", "room-s1", nil); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	reg.Remove("s1")
	reg.Remove("s1") // second removal is a no-op
	reg.Remove("never-existed")

	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	reg := session.NewRegistry()

	cfg := map[string]string{"model": "a"}
	if _, err := reg.Create("s1", "u1", "room-s1", cfg); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	// Mutating the caller's map must not leak into the registry.
	cfg["model"] = "b"

	got, _ := reg.Get("s1")
	if got.Config["model"] != "a" {
		t.Fatalf("config was not frozen at creation: %v", got.Config)
	}

	// Mutating a snapshot must not leak either.
	got.Config["model"] = "c"
	again, _ := reg.Get("s1")
	if again.Config["model"] != "a" {
		t.Fatalf("snapshot mutation leaked into registry: %v", again.Config)
	}
}

func TestRegistryConcurrentSessions(t *testing.T) {
	reg := session.NewRegistry()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			if _, err := reg.Create(id, "u", "room-"+id, nil); err != nil {
				errs <- err
				return
			}
			if _, err := reg.Get(id); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent registry op failed: %v", err)
	}
	if reg.Len() != n {
		t.Fatalf("expected %d sessions, got %d", n, reg.Len())
	}
}
