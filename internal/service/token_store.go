package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued token ids so tokens can be revoked before expiry.
type TokenStore interface {
	StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	// ConsumeRefresh deletes the refresh token and reports whether it existed.
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

func (s *redisTokenStore) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, accessKey(userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKey(userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, accessKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	deleted, err := s.client.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshKey(userID, refreshTokenID))
	}
	return s.client.Del(ctx, keys...).Err()
}
