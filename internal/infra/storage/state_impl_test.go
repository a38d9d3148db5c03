package storage

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisState(t *testing.T) (*RedisStateStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStateStorage(client, "test:"), mr
}

func TestStateStorages(t *testing.T) {
	redisStore, _ := newTestRedisState(t)

	stores := map[string]StateStorageIface{
		"memory": NewMemoryStateStorage(),
		"redis":  redisStore,
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.SetData(ctx, "user", map[string]any{"name": "alice"}))
			require.NoError(t, s.SetData(ctx, "mode", "maintenance"))
			require.NoError(t, s.AppendList(ctx, "items", "a"))
			require.NoError(t, s.AppendList(ctx, "items", 2.0))
			require.NoError(t, s.AppendList(ctx, "empty-later", "x"))

			v, err := s.IncrementCounter(ctx, "hits", 1)
			require.NoError(t, err)
			assert.Equal(t, 1.0, v)
			v, err = s.IncrementCounter(ctx, "hits", 2.5)
			require.NoError(t, err)
			assert.Equal(t, 3.5, v)

			snap, err := s.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, "maintenance", snap.Data["mode"])
			assert.Equal(t, map[string]any{"name": "alice"}, snap.Data["user"])
			assert.Equal(t, []any{"a", 2.0}, snap.Lists["items"])
			assert.Equal(t, 3.5, snap.Counters["hits"])

			require.NoError(t, s.Reset(ctx))
			snap, err = s.Snapshot(ctx)
			require.NoError(t, err)
			assert.Empty(t, snap.Data)
			assert.Empty(t, snap.Lists)
			assert.Empty(t, snap.Counters)
		})
	}
}

func TestMemoryStateSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStateStorage()
	require.NoError(t, s.AppendList(ctx, "items", "a"))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	snap.Lists["items"][0] = "mutated"

	again, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, again.Lists["items"])
}

func TestRedisStateKeyLayout(t *testing.T) {
	s, mr := newTestRedisState(t)
	ctx := context.Background()

	require.NoError(t, s.SetData(ctx, "mode", "on"))
	require.NoError(t, s.AppendList(ctx, "items", "a"))
	_, err := s.IncrementCounter(ctx, "hits", 1)
	require.NoError(t, err)

	assert.Equal(t, `"on"`, mr.HGet("test:mock_state:data", "mode"))
	members, err := mr.Members("test:mock_state:lists")
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, members)
	list, err := mr.List("test:mock_state:list:items")
	require.NoError(t, err)
	assert.Equal(t, []string{`"a"`}, list)
	hits, err := strconv.ParseFloat(mr.HGet("test:mock_state:counter", "hits"), 64)
	require.NoError(t, err)
	assert.Equal(t, 1.0, hits)
}

func TestRedisStateToleratesForeignValues(t *testing.T) {
	s, mr := newTestRedisState(t)
	mr.HSet("test:mock_state:data", "raw", "not json")
	mr.HSet("test:mock_state:counter", "bad", "abc")

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "not json", snap.Data["raw"])
	_, ok := snap.Counters["bad"]
	assert.False(t, ok)
}
