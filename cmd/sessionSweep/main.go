// Command sessionSweep deletes expired sessions and their values.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"verifyimage/infrastructure/cache"
	"verifyimage/infrastructure/session"
	"verifyimage/infrastructure/sqlite"
)

func main() {
	dbPath := getenv("SQLITE_PATH", "verifyimage.db")

	n, err := run(context.Background(), dbPath, os.Getenv("MIGRATIONS_DIR"), time.Now())
	if err != nil {
		log.Fatalf("sweep sessions: %v", err)
	}
	fmt.Printf("deleted %d expired sessions\n", n)
}

func run(ctx context.Context, dbPath, migrationsDir string, now time.Time) (int64, error) {
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(ctx, db, migrationsDir); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	return session.NewStore(db, cache.NewSessionCache(), 0).DeleteExpired(ctx, now)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
