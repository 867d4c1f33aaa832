package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"verifyimage/infrastructure/cache"
	"verifyimage/infrastructure/sqlite"
	"verifyimage/models"
)

// Store persists sessions and their values in sqlite and keeps a read-through cache.
type Store struct {
	DB    *sqlite.DB
	Cache *cache.SessionCache
	TTL   time.Duration
}

func NewStore(db *sqlite.DB, c *cache.SessionCache, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{DB: db, Cache: c, TTL: ttl}
}

// Create persists a new session and returns it with its cookie token.
func (s *Store) Create(ctx context.Context) (models.Session, string, error) {
	token := NewToken()
	now := time.Now()
	sess := models.Session{
		ID:        StorageID(token),
		Values:    map[string]string{},
		ExpiresAt: now.Add(s.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&sess).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Session{}, "", fmt.Errorf("create session: %w", err)
	}
	s.Cache.Add(sess)
	return sess, token, nil
}

// Load resolves a cookie token. Missing and expired sessions return sql.ErrNoRows.
func (s *Store) Load(ctx context.Context, token string) (models.Session, error) {
	if strings.TrimSpace(token) == "" {
		return models.Session{}, sql.ErrNoRows
	}
	id := StorageID(token)

	sess, ok := s.Cache.Find(id)
	if !ok {
		var err error
		sess, err = s.loadFromDB(ctx, id)
		if err != nil {
			return models.Session{}, err
		}
		s.Cache.Add(sess)
	}

	if sess.Expired() {
		if err := s.Delete(ctx, token); err != nil {
			slog.Error("delete expired session failed", slog.String("session_id", id), slog.Any("err", err))
		}
		return models.Session{}, sql.ErrNoRows
	}
	return sess, nil
}

func (s *Store) loadFromDB(ctx context.Context, id string) (models.Session, error) {
	var sess models.Session
	err := s.DB.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&sess).Where("s.id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		var values []models.SessionValue
		if err := tx.NewSelect().Model(&values).Where("sv.session_id = ?", id).Scan(ctx); err != nil {
			return err
		}
		sess.Values = make(map[string]string, len(values))
		for _, v := range values {
			sess.Values[v.Key] = v.Value
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Get returns a single session value.
func (s *Store) Get(ctx context.Context, token, key string) (string, bool, error) {
	sess, err := s.Load(ctx, token)
	if err != nil {
		return "", false, err
	}
	v, ok := sess.Values[key]
	return v, ok, nil
}

// Set upserts a session value, overwriting any prior value for key.
func (s *Store) Set(ctx context.Context, token, key, value string) error {
	id := StorageID(token)
	now := time.Now()
	err := s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models.SessionValue{SessionID: id, Key: key, Value: value, UpdatedAt: now}).
			On("CONFLICT (session_id, key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().
			Model((*models.Session)(nil)).
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("set session value %s: %w", key, err)
	}
	if !s.Cache.SetValue(id, key, value) {
		// Not cached; the next Load reads the row back from sqlite.
		slog.Debug("session value set on uncached session", slog.String("session_id", id))
	}
	return nil
}

// Delete removes a session and its values.
func (s *Store) Delete(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	id := StorageID(token)
	s.Cache.Delete(id)
	return s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
}

// DeleteExpired removes sessions that expired before now, from sqlite and
// from the cache, and returns how many rows were deleted.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Session)(nil)).Where("expires_at < ?", now).Exec(ctx)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	s.Cache.DeleteExpired(now)
	return n, nil
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
