package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"filestation-ai/internal/auth"
)

const sessionKeyPrefix = "filestation:telegram:session:" // filestation:telegram:session:{chat_id}

// ErrSessionNotFound is returned when a chat has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the account a Telegram chat is linked to.
type Session struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Teams      []string  `json:"teams"`
	LinkedAt   time.Time `json:"linked_at"`
}

// Principal returns the caller identity of the session.
func (s Session) Principal() auth.Principal {
	return auth.Principal{
		UserID:     s.UserID,
		Role:       s.Role,
		Department: s.Department,
		Teams:      s.Teams,
	}
}

// SessionStore keeps sessions by chat id.
type SessionStore interface {
	Get(ctx context.Context, chatID string) (Session, error)
	Put(ctx context.Context, chatID string, s Session) error
	Delete(ctx context.Context, chatID string) error
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Get(_ context.Context, chatID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Put(_ context.Context, chatID string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

// RedisStore keeps sessions in Redis as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A ttl of zero keeps sessions forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, chatID string) (Session, error) {
	data, err := r.client.Get(ctx, r.key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key(chatID), r.ttl).Err(); err != nil {
			return Session{}, fmt.Errorf("failed to refresh session ttl: %w", err)
		}
	}
	return s, nil
}

func (r *RedisStore) Put(ctx context.Context, chatID string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(chatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, chatID string) error {
	if err := r.client.Del(ctx, r.key(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) key(chatID string) string {
	return sessionKeyPrefix + chatID
}
