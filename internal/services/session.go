package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// Sessions issues and validates opaque session tokens backed by Redis.
type Sessions struct {
	rdb *redis.Client
}

func NewSessions(rdb *redis.Client) *Sessions {
	return &Sessions{rdb: rdb}
}

// Create creates a new session for a user and stores it in Redis.
// Any existing session for the user is invalidated first so the 7-day
// timer resets from the current login.
func (s *Sessions) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	_ = s.InvalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.String()

	if err := s.rdb.Set(ctx, sessionKey, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Validate checks a session token and returns the user ID if it is live.
func (s *Sessions) Validate(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.rdb.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// Invalidate removes a session from Redis.
func (s *Sessions) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.rdb.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		s.rdb.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	return s.rdb.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates all sessions for a user (used when
// the user logs in again or the password changes).
func (s *Sessions) InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	sessionToken, err := s.rdb.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		s.rdb.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return s.rdb.Del(ctx, userSessionKey).Err()
}

// Refresh extends the session expiration by 7 days from now.
func (s *Sessions) Refresh(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}

	if err := s.rdb.Expire(ctx, sessionKey, SessionDuration).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, UserSessionKeyPrefix+userIDStr, SessionDuration).Err()
}
