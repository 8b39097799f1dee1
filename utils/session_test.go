package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionStore(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestCreateSessionSetsIdleTTL(t *testing.T) {
	mr, client := sessionStore(t)

	id, err := CreateSession(context.Background(), client, Session{
		UserID:     "u1",
		Username:   "john_doe",
		Role:       "bettor",
		LoggedInAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, IdleTimeout, mr.TTL(sessionKeyPrefix+id))

	session, err := GetSession(context.Background(), client, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "john_doe", session.Username)
	assert.Equal(t, "bettor", session.Role)
}

func TestTouchSessionResetsCountdown(t *testing.T) {
	mr, client := sessionStore(t)
	ctx := context.Background()

	id, err := CreateSession(ctx, client, Session{UserID: "u1", LoggedInAt: time.Now()})
	require.NoError(t, err)

	// Most of the quiet period elapses, then activity arrives
	mr.FastForward(IdleTimeout - time.Minute)
	require.NoError(t, TouchSession(ctx, client, id, time.Now()))

	// The countdown is back at its full length, not the remainder
	assert.Equal(t, IdleTimeout, mr.TTL(sessionKeyPrefix+id))

	// Another near-timeout of quiet would have expired the original TTL
	mr.FastForward(IdleTimeout - time.Minute)
	_, err = GetSession(ctx, client, id)
	require.NoError(t, err)
}

func TestSessionExpiresAfterIdleTimeout(t *testing.T) {
	mr, client := sessionStore(t)
	ctx := context.Background()

	id, err := CreateSession(ctx, client, Session{UserID: "u1", LoggedInAt: time.Now()})
	require.NoError(t, err)

	mr.FastForward(IdleTimeout + time.Second)

	_, err = GetSession(ctx, client, id)
	assert.ErrorIs(t, err, ErrSessionExpired)

	err = TouchSession(ctx, client, id, time.Now())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestDeleteSession(t *testing.T) {
	_, client := sessionStore(t)
	ctx := context.Background()

	id, err := CreateSession(ctx, client, Session{UserID: "u1", LoggedInAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, DeleteSession(ctx, client, id))

	_, err = GetSession(ctx, client, id)
	assert.ErrorIs(t, err, ErrSessionExpired)
}
