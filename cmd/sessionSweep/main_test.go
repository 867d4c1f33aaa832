package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"verifyimage/infrastructure/cache"
	"verifyimage/infrastructure/session"
	"verifyimage/infrastructure/sqlite"
)

func seedSessions(t *testing.T, dbPath string, ttls ...time.Duration) {
	t.Helper()
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	for _, ttl := range ttls {
		store := session.NewStore(db, cache.NewSessionCache(), ttl)
		if _, _, err := store.Create(context.Background()); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}
}

func TestRunDeletesOnlyExpired(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sweep.db")
	seedSessions(t, dbPath, time.Minute, time.Hour, 48*time.Hour)

	n, err := run(context.Background(), dbPath, "", time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expired sessions, got %d", n)
	}

	n, err = run(context.Background(), dbPath, "", time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second sweep to be a no-op, got %d", n)
	}
}

func TestRunOnFreshDatabase(t *testing.T) {
	n, err := run(context.Background(), filepath.Join(t.TempDir(), "fresh.db"), "", time.Now())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing to delete, got %d", n)
	}
}

func TestRunRejectsEmptyPath(t *testing.T) {
	if _, err := run(context.Background(), "", "", time.Now()); err == nil {
		t.Fatalf("expected error for empty db path")
	}
}
