package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/pkg/database"
)

// TokenBlacklistService records revoked token ids (jti) in Redis.
// Keys expire together with the token's natural lifetime, so the
// revocation set garbage-collects itself. A revoked token id never
// becomes usable again.
type TokenBlacklistService struct {
	redis *database.Redis
}

var _ TokenRevoker = &TokenBlacklistService{}

// NewTokenBlacklistService creates a new token blacklist service
func NewTokenBlacklistService(redis *database.Redis) *TokenBlacklistService {
	return &TokenBlacklistService{redis: redis}
}

func blacklistKey(tokenID string) string {
	return fmt.Sprintf("revoked:jti:%s", tokenID)
}

// Revoke marks a token id as unusable for the remainder of its lifetime
func (s *TokenBlacklistService) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past natural expiry, nothing to record.
		return nil
	}
	if err := s.redis.Client.Set(ctx, blacklistKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token id has been revoked
func (s *TokenBlacklistService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := s.redis.Client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}
