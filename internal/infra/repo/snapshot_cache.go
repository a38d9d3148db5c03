package repo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/utils"

	"github.com/avast/retry-go/v4"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
)

// snapshot 某个版本下的全量数据，发布后只读
type snapshot[T any] struct {
	version uint64
	items   []T
	index   map[string]int
}

// snapshotCache 写时失效的全量缓存：写操作递增版本号，
// 读操作发现版本落后时经 singleflight 重新加载
type snapshotCache[T any] struct {
	name        string
	load        func(ctx context.Context) ([]T, error)
	id          func(T) string
	retryCount  int
	retryDelay  time.Duration
	loadTimeout time.Duration
	taskPool    *ants.Pool

	version atomic.Uint64
	current atomic.Pointer[snapshot[T]]
	sfGroup singleflight.Group
}

// get 返回当前版本的快照。加载由 singleflight 合并，并在脱离调用方取消信号的
// context 上执行；调用方取消只结束自己的等待，不影响其他等待者
func (c *snapshotCache[T]) get(ctx context.Context) (*snapshot[T], error) {
	v := c.version.Load()
	if s := c.current.Load(); s != nil && s.version == v {
		return s, nil
	}

	ch := c.sfGroup.DoChan(fmt.Sprintf("%s_%d", c.name, v), func() (interface{}, error) {
		if s := c.current.Load(); s != nil && s.version == v {
			return s, nil
		}
		return c.reload(context.WithoutCancel(ctx), v)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot[T]), nil
	}
}

func (c *snapshotCache[T]) reload(ctx context.Context, v uint64) (*snapshot[T], error) {
	if c.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.loadTimeout)
		defer cancel()
	}

	var items []T
	err := retry.Do(
		func() error {
			var err error
			items, err = c.load(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts(c.retryCount)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s snapshot: %w", c.name, err)
	}

	s := &snapshot[T]{version: v, items: items, index: make(map[string]int, len(items))}
	for i, item := range items {
		s.index[c.id(item)] = i
	}
	// 加载期间又发生写入时不发布旧数据
	if c.version.Load() == v {
		c.current.Store(s)
	}
	return s, nil
}

func (c *snapshotCache[T]) lookup(ctx context.Context, id string) (T, bool, error) {
	var zero T
	s, err := c.get(ctx)
	if err != nil {
		return zero, false, err
	}
	i, ok := s.index[id]
	if !ok {
		return zero, false, nil
	}
	return s.items[i], true, nil
}

// invalidate 使当前快照失效，并异步预热下一版本
func (c *snapshotCache[T]) invalidate() {
	c.version.Add(1)
	if c.taskPool == nil {
		return
	}
	if err := c.taskPool.Submit(func() {
		if _, err := c.get(context.Background()); err != nil {
			utils.GetLogger().Warnf("warm up %s snapshot failed: %v", c.name, err)
		}
	}); err != nil {
		utils.GetLogger().Warnf("failed to submit %s warm-up task: %v", c.name, err)
	}
}

// retryWrite 对存储写操作重试，不存在类错误直接返回
func retryWrite(ctx context.Context, count int, delay time.Duration, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(attempts(count)),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, model.ErrRuleNotFound) && !errors.Is(err, model.ErrGroupNotFound)
		}),
	)
}

// attempts retry-go 把 0 当作无限重试
func attempts(n int) uint {
	if n < 1 {
		return 1
	}
	return uint(n)
}
