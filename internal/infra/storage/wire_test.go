package storage

import (
	"context"
	"strconv"
	"testing"

	configs "go_mockapi_server/internal/infra/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendSelection(t *testing.T) {
	c := &configs.MockConfig{Storage: configs.StorageConfig{
		RuleBackend:  configs.BackendMemory,
		StateBackend: configs.BackendMemory,
	}}

	db, cleanup, err := NewMySQLClient(c)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, db)

	client, cleanup, err := NewRedisClient(c)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, client)

	assert.IsType(t, &MemoryRuleStorage{}, NewRuleStorage(c, db))
	assert.IsType(t, &MemoryQueryHeaderStorage{}, NewQueryHeaderStorage(c, db))
	assert.IsType(t, &MemoryStateStorage{}, NewStateStorage(c, client))
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c := &configs.MockConfig{
		Storage:     configs.StorageConfig{StateBackend: configs.BackendRedis},
		RedisConfig: configs.RedisConfig{Host: mr.Host(), Port: port, KeyPrefix: "it:"},
	}
	client, cleanup, err := NewRedisClient(c)
	require.NoError(t, err)
	defer cleanup()

	store := NewStateStorage(c, client)
	require.IsType(t, &RedisStateStorage{}, store)
	require.NoError(t, store.SetData(context.Background(), "k", "v"))
	assert.True(t, mr.Exists("it:mock_state:data"))
}

func TestRedisBackendUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	c := &configs.MockConfig{
		Storage:     configs.StorageConfig{StateBackend: configs.BackendRedis},
		RedisConfig: configs.RedisConfig{Host: host, Port: port},
	}
	_, _, err = NewRedisClient(c)
	assert.Error(t, err)
}
