package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMemoryStore(t *testing.T) (*Store, *MemoryBackend, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	backend := NewMemoryBackend()
	return NewStore(backend, zap.New(core)), backend, logs
}

func TestLoadUserDefaultsWhenAbsent(t *testing.T) {
	store, _, _ := newMemoryStore(t)
	u := store.LoadUser(context.Background())
	if u.Points != 0 || u.LifetimePoints != 0 || u.TotalMissionsCompleted != 0 {
		t.Fatalf("default user has non-zero counters: %+v", u)
	}
	if u.Stage != DefaultStage {
		t.Fatalf("stage=%q, want %q", u.Stage, DefaultStage)
	}
	if u.Inventory == nil || len(u.Inventory) != 0 {
		t.Fatalf("inventory=%v, want empty non-nil", u.Inventory)
	}
}

func TestLoadUserCorruptedRecordResets(t *testing.T) {
	ctx := context.Background()
	store, backend, logs := newMemoryStore(t)
	if err := backend.Set(ctx, UserKey, "definitely { not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := store.LoadUser(ctx)
	if u.Name != DefaultUser().Name || u.Points != 0 {
		t.Fatalf("got %+v, want default user", u)
	}
	if _, ok, _ := backend.Get(ctx, UserKey); ok {
		t.Fatalf("corrupted user record was not cleared")
	}
	if logs.FilterMessage("user record corrupted, resetting").Len() != 1 {
		t.Fatalf("expected a corruption warning to be logged")
	}
}

func TestLoadUserMigratesLegacyRecord(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)
	legacy := `{"name":"Mina","points":320,"totalMissionsCompleted":7,"stage":"sprout"}`
	if err := backend.Set(ctx, UserKey, legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := store.LoadUser(ctx)
	if u.LifetimePoints != 320 {
		t.Fatalf("lifetimePoints=%d, want 320", u.LifetimePoints)
	}
	if u.Inventory == nil || len(u.Inventory) != 0 {
		t.Fatalf("inventory=%v, want empty", u.Inventory)
	}
	raw, _, _ := backend.Get(ctx, UserKey)
	if raw != legacy {
		t.Fatalf("migration should not write; stored=%s", raw)
	}
}

func TestLoadUserKeepsLifetimeWhenPresent(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)
	_ = backend.Set(ctx, UserKey, `{"name":"Mina","points":10,"lifetimePoints":900,"inventory":["pot","pot","bench"]}`)

	u := store.LoadUser(ctx)
	if u.LifetimePoints != 900 {
		t.Fatalf("lifetimePoints=%d, want 900", u.LifetimePoints)
	}
	if len(u.Inventory) != 2 {
		t.Fatalf("inventory=%v, want 2 unique ids", u.Inventory)
	}
}

func TestLogsRoundTripAndCorruption(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)

	if got := store.LoadLogs(ctx); len(got) != 0 {
		t.Fatalf("LoadLogs on empty store=%v, want empty", got)
	}
	if err := store.AppendLog(ctx, MissionLog{ID: "1", Title: "Unplug chargers", Points: 30}); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	if err := store.AppendLog(ctx, MissionLog{ID: "2", Title: "Bring a tumbler", Points: 50}); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	got := store.LoadLogs(ctx)
	if len(got) != 2 || got[1].Title != "Bring a tumbler" {
		t.Fatalf("logs=%+v", got)
	}

	_ = backend.Set(ctx, LogsKey, "[{")
	if got := store.LoadLogs(ctx); len(got) != 0 {
		t.Fatalf("corrupted logs=%v, want empty", got)
	}
}

func TestPlacesDefaultAndSave(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)

	if got := store.LoadPlaces(ctx); len(got) != len(DefaultPlaces()) {
		t.Fatalf("places=%d, want seed list of %d", len(got), len(DefaultPlaces()))
	}

	places := append(store.LoadPlaces(ctx), SavedPlace{ID: 99, Name: "Library", Type: PlaceIndoor})
	if err := store.SavePlaces(ctx, places); err != nil {
		t.Fatalf("SavePlaces: %v", err)
	}
	if got := store.LoadPlaces(ctx); len(got) != 4 || got[3].Name != "Library" {
		t.Fatalf("places=%+v", got)
	}

	_ = backend.Set(ctx, PlacesKey, "nope")
	if got := store.LoadPlaces(ctx); len(got) != len(DefaultPlaces()) {
		t.Fatalf("corrupted places should fall back to the seed list, got %d", len(got))
	}
}

func TestSaveFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)
	backend.FailWrites = errors.New("quota exceeded")

	if err := store.SaveUser(ctx, DefaultUser()); err == nil {
		t.Fatalf("expected save error")
	}
	if u := store.LoadUser(ctx); u.Name != DefaultUser().Name {
		t.Fatalf("load after failed save=%+v", u)
	}
}

func TestResetClearsAllRecords(t *testing.T) {
	ctx := context.Background()
	store, backend, _ := newMemoryStore(t)
	_ = store.SaveUser(ctx, User{Name: "x", Points: 5, LifetimePoints: 5})
	_ = store.SaveLogs(ctx, []MissionLog{{ID: "1"}})
	_ = store.SavePlaces(ctx, nil)

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if keys := backend.Keys(); len(keys) != 0 {
		t.Fatalf("keys after reset=%v", keys)
	}
}

func TestSQLiteBackendReplaceHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := NewStore(NewSQLiteBackend(db), zap.NewNop())
	u := User{Name: "A", Points: 150, LifetimePoints: 150, TotalMissionsCompleted: 2, Stage: "sprout", Inventory: []string{}}
	logs := []MissionLog{{ID: "rec-0", Points: 100}, {ID: "rec-1", Points: 50}}
	if err := store.ReplaceHistory(ctx, u, logs); err != nil {
		t.Fatalf("ReplaceHistory: %v", err)
	}

	if got := store.LoadUser(ctx); got.Points != 150 || got.Name != "A" {
		t.Fatalf("user=%+v", got)
	}
	if got := store.LoadLogs(ctx); len(got) != 2 {
		t.Fatalf("logs=%d, want 2", len(got))
	}

	// Migrate must be re-runnable on an existing file.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := store.LoadLogs(ctx); len(got) != 0 {
		t.Fatalf("logs after reset=%d", len(got))
	}
}
