// utils/session.go
package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// IdleTimeout is the quiet period after which a session expires. Any
// authenticated request refreshes the countdown to the full value.
const IdleTimeout = 5 * time.Minute

const sessionKeyPrefix = "session:"

var ErrSessionExpired = errors.New("session expired")

// Session is the server-side record behind a logged-in client. It replaces
// the legacy browser-storage flags: guards ask this service, not a storage
// key.
type Session struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	LoggedInAt time.Time `json:"loggedInAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// CreateSession stores a new session under a random id with the idle TTL
// and returns the id.
func CreateSession(ctx context.Context, client *redis.Client, session Session) (string, error) {
	if client == nil {
		return "", errors.New("session store unavailable")
	}
	sessionID := uuid.NewString()
	session.LastSeenAt = session.LoggedInAt

	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := client.Set(ctx, sessionKeyPrefix+sessionID, data, IdleTimeout).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// GetSession loads a live session. An absent key means the idle timeout
// elapsed (or the session was logged out).
func GetSession(ctx context.Context, client *redis.Client, sessionID string) (*Session, error) {
	if client == nil {
		return nil, errors.New("session store unavailable")
	}
	data, err := client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// TouchSession resets the idle countdown to the full timeout and records
// the activity instant. A missing session reports expiry.
func TouchSession(ctx context.Context, client *redis.Client, sessionID string, now time.Time) error {
	if client == nil {
		return errors.New("session store unavailable")
	}

	session, err := GetSession(ctx, client, sessionID)
	if err != nil {
		return err
	}
	session.LastSeenAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return client.Set(ctx, sessionKeyPrefix+sessionID, data, IdleTimeout).Err()
}

// DeleteSession removes a session immediately (logout)
func DeleteSession(ctx context.Context, client *redis.Client, sessionID string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
