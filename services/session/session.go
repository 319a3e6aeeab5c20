// File: services/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const SessionPrefix = "session:"

// SessionTTL bounds how long a sign-in survives without refresh.
const SessionTTL = 24 * time.Hour

// Session represents a signed-in user on a device. The bearer token is minted
// by the external auth collaborator; this layer only stores and serves it.
type Session struct {
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId"`
	Token         string    `json:"token"`
	DeviceID      string    `json:"deviceId"`
	DeviceName    string    `json:"deviceName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Store persists sessions in Redis with a TTL.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save writes the session under its id, refreshing the TTL.
func (s *Store) Save(ctx context.Context, sess Session) error {
	sess.LastUpdatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, SessionPrefix+sess.SessionID, data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get retrieves a session by id. Returns redis.Nil through the error when the
// session is missing or expired.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, SessionPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session (sign-out).
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, SessionPrefix+sessionID).Err()
}
