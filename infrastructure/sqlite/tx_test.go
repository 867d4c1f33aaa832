package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

const insertSession = `INSERT INTO sessions (id, expires_at, created_at, updated_at) VALUES (?, DATETIME('now', '+1 hour'), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

func countSessions(t *testing.T, db *DB, id string) int {
	t.Helper()
	var count int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return count
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, insertSession, "rollback-session"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got: %v", err)
	}
	if count := countSessions(t, db, "rollback-session"); count != 0 {
		t.Fatalf("expected rollback to remove insert, count=%d", count)
	}
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, insertSession, "commit-session")
		return err
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}
	if count := countSessions(t, db, "commit-session"); count != 1 {
		t.Fatalf("expected committed insert, count=%d", count)
	}
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, insertSession, "read-only-session")
		return err
	})
	if err == nil {
		t.Fatalf("expected write in read tx to fail")
	}
	if count := countSessions(t, db, "read-only-session"); count != 0 {
		t.Fatalf("expected no row from read tx write, count=%d", count)
	}
}

func TestSessionValuesCascadeOnSessionDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, insertSession, "cascade-session"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO session_values (session_id, key, value) VALUES (?, ?, ?)`, "cascade-session", "tntcon", "x"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, "cascade-session")
		return err
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}

	var count int
	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM session_values WHERE session_id = ?`, "cascade-session").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count values: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected session values to cascade, count=%d", count)
	}
}
