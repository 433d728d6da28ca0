package siteconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrKeyNotFound = errors.New("config key not found")

// Store is a process-wide cache over the site_config key -> JSON table.
// Reads are served from memory; writes go through and invalidate the cached
// entry explicitly.
type Store struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]json.RawMessage
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, cache: map[string]json.RawMessage{}}
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	v, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_config WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	v = json.RawMessage(raw)

	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("config value for %q is not valid JSON", key)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_config (key,value,updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		key, string(value), time.Now().Unix())
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}
