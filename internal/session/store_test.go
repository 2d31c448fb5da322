package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func openTestStore(t *testing.T) (*Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 17, 9, 0, 0, 0, time.UTC))
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"), clock)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func TestSaveAndList(t *testing.T) {
	store, clock := openTestStore(t)

	params := json.RawMessage(`{"teams":6,"fields":2}`)
	saved, err := store.Save("spring setup", params)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if saved.ID == "" {
		t.Error("Save() returned empty id")
	}
	if !saved.SavedAt.Equal(clock.Now()) {
		t.Errorf("SavedAt = %v, want %v", saved.SavedAt, clock.Now())
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("List() returned %d sessions, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Label != "spring setup" {
		t.Errorf("label = %q", got.Label)
	}
	if string(got.Params) != string(params) {
		t.Errorf("params = %s, want %s", got.Params, params)
	}
}

func TestSaveDefaultLabel(t *testing.T) {
	store, _ := openTestStore(t)

	saved, err := store.Save("", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if saved.Label != "Session 2026-05-17 09:00" {
		t.Errorf("default label = %q", saved.Label)
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.Save("bad", json.RawMessage(`{not json`))
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Save() error = %v, want ErrInvalidParams", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store, clock := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.Save(fmt.Sprintf("session %d", i), json.RawMessage(`{}`)); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		clock.Advance(time.Minute)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"session 2", "session 1", "session 0"}
	for i, label := range want {
		if sessions[i].Label != label {
			t.Errorf("sessions[%d].Label = %q, want %q", i, sessions[i].Label, label)
		}
	}
}

func TestSaveEvictsBeyondCap(t *testing.T) {
	store, clock := openTestStore(t)

	for i := 0; i < maxSessions+3; i++ {
		if _, err := store.Save(fmt.Sprintf("session %d", i), json.RawMessage(`{}`)); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		clock.Advance(time.Minute)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sessions) != maxSessions {
		t.Fatalf("List() returned %d sessions, want %d", len(sessions), maxSessions)
	}
	if sessions[0].Label != "session 12" {
		t.Errorf("newest = %q, want session 12", sessions[0].Label)
	}
	if sessions[len(sessions)-1].Label != "session 3" {
		t.Errorf("oldest kept = %q, want session 3", sessions[len(sessions)-1].Label)
	}
}

func TestGet(t *testing.T) {
	store, _ := openTestStore(t)

	saved, err := store.Save("lookup", json.RawMessage(`{"teams":4}`))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Label != "lookup" || string(got.Params) != `{"teams":4}` {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := store.Get("no-such-id"); err == nil {
		t.Error("Get() = nil error for unknown id")
	}
}
