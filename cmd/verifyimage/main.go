package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verifyimage/frontend/verification"
	"verifyimage/infrastructure/cache"
	httpserver "verifyimage/infrastructure/http"
	"verifyimage/infrastructure/session"
	"verifyimage/infrastructure/sqlite"
)

func main() {
	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "verifyimage.db")
	ttl, err := time.ParseDuration(getenv("SESSION_TTL", session.DefaultTTL.String()))
	if err != nil {
		log.Fatalf("parse SESSION_TTL: %v", err)
	}
	sweepInterval, err := time.ParseDuration(getenv("SESSION_SWEEP_INTERVAL", httpserver.SessionSweepInterval.String()))
	if err != nil {
		log.Fatalf("parse SESSION_SWEEP_INTERVAL: %v", err)
	}

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, os.Getenv("MIGRATIONS_DIR")); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessions := session.NewStore(db, cache.NewSessionCache(), ttl)
	server := httpserver.NewServer(addr, db, sessions, &verification.Generator{})
	server.SweepInterval = sweepInterval
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("verifyimage listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
