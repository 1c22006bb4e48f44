package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/registrar/internal/registrar/store/drivers/redis"
)

func newTestLedger(t *testing.T) (*redis.Ledger, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewLedger(client), mr
}

func TestConsumeSingleWinner(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := ledger.Consume(ctx, "token-1", expiresAt)
			require.NoError(t, err)
			if won {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, winners)
}

func TestRevokeAndIsRevoked(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	revoked, err := ledger.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "token-2", time.Now().Add(time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "token-2", time.Now().Add(time.Hour)))

	revoked, err = ledger.IsRevoked(ctx, "token-2")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestEntriesExpireWithToken(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "token-3", time.Now().Add(time.Minute)))

	mr.FastForward(2 * time.Minute)

	revoked, err := ledger.IsRevoked(ctx, "token-3")
	require.NoError(t, err)
	require.False(t, revoked)
}
