package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/frn-eng/intake-agent/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")

	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore failed: %v", err)
	}

	sess, existed, err := store.GetOrCreate(ctx, "user-1", "room-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if existed {
		t.Fatalf("fresh store must not report an existing session")
	}

	sess.Values["Date"] = "25/مايو/2025"
	sess.Position = 1
	sess.State = domain.StateAwaitingField
	sess.LastEventID = "ev-9"
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, existed, err := store.GetOrCreate(ctx, "user-1", "room-1")
	if err != nil || !existed {
		t.Fatalf("expected existing session, err=%v existed=%v", err, existed)
	}
	if got.Position != 1 || got.Values["Date"] == "" || got.LastEventID != "ev-9" {
		t.Fatalf("session did not round-trip: %+v", got)
	}
}

func TestSessionsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")

	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore failed: %v", err)
	}
	sess, _, err := store.GetOrCreate(ctx, "user-1", "room-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	sess.Position = 2
	sess.State = domain.StateAwaitingField
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Simulated restart.
	reopened, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, existed, err := reopened.GetOrCreate(ctx, "user-1", "room-1")
	if err != nil || !existed {
		t.Fatalf("expected persisted session after reopen, err=%v existed=%v", err, existed)
	}
	if got.Position != 2 {
		t.Fatalf("expected position 2 after reopen, got %d", got.Position)
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")

	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore failed: %v", err)
	}
	if _, _, err := store.GetOrCreate(ctx, "user-1", "room-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if err := store.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, existed, err := store.GetOrCreate(ctx, "user-1", "room-1")
	if err != nil {
		t.Fatalf("GetOrCreate after delete failed: %v", err)
	}
	if existed {
		t.Fatalf("deleted session still present")
	}

	// Deleting a missing session is not an error.
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing session failed: %v", err)
	}
}

func TestCorruptFileIsAStartupFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("seeding corrupt file failed: %v", err)
	}

	if _, err := NewSessionStore(path); err == nil {
		t.Fatalf("expected corrupt store file to fail startup")
	}
}
