package service

import (
	"context"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// TokenJanitor periodically deletes expired refresh tokens. Revoked
// jtis age out of Redis via TTL; the Postgres rows need a sweep.
type TokenJanitor struct {
	tokenRepo repository.TokenRepository
	clock     clockwork.Clock
	interval  time.Duration
	logger    *zap.Logger
}

// NewTokenJanitor creates a refresh token janitor
func NewTokenJanitor(tokenRepo repository.TokenRepository, clock clockwork.Clock, interval time.Duration, logger *zap.Logger) *TokenJanitor {
	return &TokenJanitor{
		tokenRepo: tokenRepo,
		clock:     clock,
		interval:  interval,
		logger:    logger,
	}
}

// Run sweeps once immediately and then on every interval tick until
// the context is cancelled.
func (j *TokenJanitor) Run(ctx context.Context) {
	j.sweep(ctx)

	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			j.sweep(ctx)
		}
	}
}

func (j *TokenJanitor) sweep(ctx context.Context) {
	if err := j.tokenRepo.DeleteExpired(ctx); err != nil {
		j.logger.Warn("Failed to delete expired refresh tokens", zap.Error(err))
	}
}
