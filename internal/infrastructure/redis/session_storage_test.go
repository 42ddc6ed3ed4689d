//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/climate-service/pkg/config"
)

func setupRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return config.RedisConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port())}
}

func TestSessionStorage(t *testing.T) {
	cfg := setupRedis(t)
	s, err := NewSessionStorage(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get("nadie")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set("abc", []byte("gob"), time.Minute))
	v, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("gob"), v)

	require.NoError(t, s.Delete("abc"))
	v, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSessionStorage_ResetKeepsForeignKeys(t *testing.T) {
	cfg := setupRedis(t)
	ctx := context.Background()
	s, err := NewSessionStorage(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for i := range 250 {
		require.NoError(t, s.Set(fmt.Sprintf("s%d", i), []byte("x"), time.Minute))
	}
	raw := goredis.NewClient(&goredis.Options{Addr: cfg.Addr})
	t.Cleanup(func() { _ = raw.Close() })
	require.NoError(t, raw.Set(ctx, "otra:app", "1", 0).Err())

	require.NoError(t, s.Reset())

	keys, err := raw.Keys(ctx, keyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "1", raw.Get(ctx, "otra:app").Val())
}

func TestNewSessionStorage_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewSessionStorage(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
