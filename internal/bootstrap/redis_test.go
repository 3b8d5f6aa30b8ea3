package bootstrap

import (
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officeplus/faq-api/config"
)

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := config.RedisConfig{Host: mr.Host(), Port: port, DialTimeout: time.Second}
	cfg.Sanitize()
	return cfg
}

func TestRedisClientFactory_Direct(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := RedisClientFactory(redisConfigFor(t, mr))()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisClientFactory_Cluster(t *testing.T) {
	cfg := config.RedisConfig{ClusterMode: true, ClusterNodes: []string{"10.0.0.1:6379", "10.0.0.2:6379"}}
	client, err := RedisClientFactory(cfg)()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, ok := client.(*redis.ClusterClient)
	assert.True(t, ok, "cluster mode builds a cluster client")
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	handle, err := ConnectRedis(context.Background(), redisConfigFor(t, mr), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })

	require.NoError(t, handle.Ping(context.Background()))
}

func TestConnectRedis_UnreachableIsNotFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfigFor(t, mr)
	mr.Close()

	handle, err := ConnectRedis(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	assert.Error(t, handle.Ping(context.Background()))
}
