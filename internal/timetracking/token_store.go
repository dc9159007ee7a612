package timetracking

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoToken = errors.New("no cached upstream token")

// TokenStore caches the upstream session token between requests and, with
// Redis, between processes.
type TokenStore interface {
	Get(ctx context.Context) (string, error)

	Set(ctx context.Context, token string, ttl time.Duration) error

	Clear(ctx context.Context) error
}

type MemoryTokenStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{now: time.Now}
}

func (m *MemoryTokenStore) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" || !m.now().Before(m.expiresAt) {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.expiresAt = m.now().Add(ttl)
	return nil
}

func (m *MemoryTokenStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	return nil
}
