package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// TTL is the inactivity window after which a session expires. The middleware
// refreshes it on every authenticated request (sliding expiry).
const TTL = 7 * 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Data is the user projection held server-side for a logged-in session.
type Data struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Store keeps sessions in Redis keyed by an opaque id carried in the cookie.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create stores a new session and returns its opaque id.
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, sessionKey(id), payload, TTL).Err(); err != nil {
		return "", err
	}

	return id, nil
}

// Get loads a session by id and slides its expiry forward.
func (s *Store) Get(ctx context.Context, id string) (*Data, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var data Data
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, err
	}

	// Sliding expiry: active users stay logged in, idle sessions lapse.
	_ = s.client.Expire(ctx, sessionKey(id), TTL).Err()

	return &data, nil
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
