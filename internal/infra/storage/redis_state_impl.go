package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/utils"

	"github.com/go-redis/redis/v8"
)

// Redis key 布局
const (
	stateDataKey    = "mock_state:data"    // hash: name -> JSON
	stateListsKey   = "mock_state:lists"   // set: 所有 list 名称
	stateListPrefix = "mock_state:list:"   // list: JSON 元素
	stateCounterKey = "mock_state:counter" // hash: name -> float
)

type RedisStateStorage struct {
	redisClient *redis.Client
	prefix      string
}

var _ StateStorageIface = (*RedisStateStorage)(nil)

// NewRedisClient 仅在状态后端为 redis 时建立连接
func NewRedisClient(c *configs.MockConfig) (*redis.Client, func(), error) {
	if c.Storage.StateBackend != configs.BackendRedis {
		return nil, func() {}, nil
	}

	rc := c.RedisConfig
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.Database,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		MaxRetries:   rc.MaxRetries,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
		PoolTimeout:  rc.PoolTimeout,
		IdleTimeout:  rc.IdleTimeout,
	})

	// 测试连接是否成功
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	utils.GetLogger().Infof("connected to redis %s", rc.Addr())

	cleanup := func() {
		if err := client.Close(); err != nil {
			utils.GetLogger().Errorf("close redis client err: %v", err)
		}
	}
	return client, cleanup, nil
}

func NewRedisStateStorage(redisClient *redis.Client, keyPrefix string) *RedisStateStorage {
	return &RedisStateStorage{redisClient: redisClient, prefix: keyPrefix}
}

func (r *RedisStateStorage) key(k string) string {
	return r.prefix + k
}

func (r *RedisStateStorage) listKey(name string) string {
	return r.prefix + stateListPrefix + name
}

func (r *RedisStateStorage) Snapshot(ctx context.Context) (*model.StateSnapshot, error) {
	var (
		dataCmd    *redis.StringStringMapCmd
		namesCmd   *redis.StringSliceCmd
		counterCmd *redis.StringStringMapCmd
	)
	_, err := r.redisClient.Pipelined(ctx, func(p redis.Pipeliner) error {
		dataCmd = p.HGetAll(ctx, r.key(stateDataKey))
		namesCmd = p.SMembers(ctx, r.key(stateListsKey))
		counterCmd = p.HGetAll(ctx, r.key(stateCounterKey))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state from redis: %w", err)
	}

	snap := &model.StateSnapshot{
		Data:     make(map[string]any),
		Lists:    make(map[string][]any),
		Counters: make(map[string]float64),
	}
	for name, raw := range dataCmd.Val() {
		snap.Data[name] = decodeStateValue(raw)
	}
	for name, raw := range counterCmd.Val() {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.GetLogger().Warnf("skip malformed counter %s=%q", name, raw)
			continue
		}
		snap.Counters[name] = f
	}

	names := namesCmd.Val()
	if len(names) == 0 {
		return snap, nil
	}
	rangeCmds := make([]*redis.StringSliceCmd, len(names))
	_, err = r.redisClient.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, name := range names {
			rangeCmds[i] = p.LRange(ctx, r.listKey(name), 0, -1)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state lists from redis: %w", err)
	}
	for i, name := range names {
		raws := rangeCmds[i].Val()
		items := make([]any, 0, len(raws))
		for _, raw := range raws {
			items = append(items, decodeStateValue(raw))
		}
		snap.Lists[name] = items
	}
	return snap, nil
}

// decodeStateValue 值以 JSON 存储，解析失败时按原始字符串返回
func decodeStateValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func (r *RedisStateStorage) SetData(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state value: %w", err)
	}
	if err := r.redisClient.HSet(ctx, r.key(stateDataKey), name, raw).Err(); err != nil {
		return fmt.Errorf("failed to set state data in redis: %w", err)
	}
	return nil
}

func (r *RedisStateStorage) AppendList(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state value: %w", err)
	}
	_, err = r.redisClient.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, r.key(stateListsKey), name)
		p.RPush(ctx, r.listKey(name), raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append state list in redis: %w", err)
	}
	return nil
}

func (r *RedisStateStorage) IncrementCounter(ctx context.Context, name string, delta float64) (float64, error) {
	val, err := r.redisClient.HIncrByFloat(ctx, r.key(stateCounterKey), name, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment state counter in redis: %w", err)
	}
	return val, nil
}

func (r *RedisStateStorage) Reset(ctx context.Context) error {
	names, err := r.redisClient.SMembers(ctx, r.key(stateListsKey)).Result()
	if err != nil {
		return fmt.Errorf("failed to read state lists from redis: %w", err)
	}
	keys := []string{r.key(stateDataKey), r.key(stateListsKey), r.key(stateCounterKey)}
	for _, name := range names {
		keys = append(keys, r.listKey(name))
	}
	if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset state in redis: %w", err)
	}
	return nil
}
