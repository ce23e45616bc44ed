package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// RedisAddrEnv names the variable that points tests at a running Redis
const RedisAddrEnv = "REDIS_TEST_ADDR"

// testDB keeps test keys away from a developer's data
const testDB = 15

// RedisClientOrSkip connects to the Redis at REDIS_TEST_ADDR (localhost:6379
// by default), flushes the test database and skips the test when nothing is
// listening
func RedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = "localhost:6379"
	}
	return connect(t, addr, true)
}

func connect(t *testing.T, addr string, skip bool) redis.UniversalClient {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   testDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if skip {
			t.Skipf("redis not available at %s: %v", addr, err)
		}
		require.NoError(t, err, "redis not reachable at %s", addr)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
