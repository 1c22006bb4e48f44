// Package redis provides a revocation ledger backed by Redis. Entries
// carry a TTL matching the token's own expiry, so Redis sweeps them
// without a housekeeping pass.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "registrar:revoked:"

type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

// Consume records jti as revoked using SETNX, so exactly one of any
// concurrent consumers observes true.
func (l *Ledger) Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return l.client.SetNX(ctx, keyPrefix+jti, "1", ttl).Result()
}

func (l *Ledger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := l.Consume(ctx, jti, expiresAt)
	return err
}

func (l *Ledger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteExpired is a no-op for Redis since keys expire via TTL. It exists
// to satisfy the ledger interface.
func (l *Ledger) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
