package repo

import (
	"context"
	"fmt"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/internal/infra/storage"
	"go_mockapi_server/utils"

	"github.com/panjf2000/ants/v2"
)

// ruleRepoImpl 规则仓库：存储写入带重试，读走 singleflight 加载的快照
type ruleRepoImpl struct {
	storage storage.RuleStorageIface
	config  *configs.RuleRepoConfig
	cache   *snapshotCache[*model.Rule]
}

// 确保 ruleRepoImpl 实现了 RuleRepositoryIface 接口 (编译时检查)
var _ RuleRepositoryIface = (*ruleRepoImpl)(nil)

func NewRuleRepoConfig(c *configs.MockConfig) *configs.RuleRepoConfig {
	return &c.RuleRepoConfig
}

// NewWarmupPool 快照预热使用的协程池
func NewWarmupPool(config *configs.RuleRepoConfig) (*ants.Pool, func(), error) {
	taskPool, err := ants.NewPool(config.WarmupPoolSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	return taskPool, taskPool.Release, nil
}

func NewRuleRepoImpl(ruleStorage storage.RuleStorageIface, config *configs.RuleRepoConfig, taskPool *ants.Pool) RuleRepositoryIface {
	r := &ruleRepoImpl{
		storage: ruleStorage,
		config:  config,
	}
	r.cache = &snapshotCache[*model.Rule]{
		name:        "rules",
		load:        r.loadRules,
		id:          func(rule *model.Rule) string { return rule.ID },
		retryCount:  config.SnapshotRetryCount,
		retryDelay:  config.SnapshotRetryDelay,
		loadTimeout: config.SnapshotLoadTimeout,
		taskPool:    taskPool,
	}
	return r
}

// loadRules 读取全部规则并预编译正则，非法规则保留但记录日志
func (r *ruleRepoImpl) loadRules(ctx context.Context) ([]*model.Rule, error) {
	rules, err := r.storage.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if err := rule.Compile(); err != nil {
			utils.GetLogger().Warnf("rule %s cannot be compiled, it will never match: %v", rule.ID, err)
		}
	}
	return rules, nil
}

func (r *ruleRepoImpl) ListRules(ctx context.Context) ([]*model.Rule, error) {
	s, err := r.cache.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.items, nil
}

// GetRule 返回快照中规则的副本
func (r *ruleRepoImpl) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	rule, ok, err := r.cache.lookup(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrRuleNotFound, ruleID)
	}
	return rule.Clone(), nil
}

func (r *ruleRepoImpl) SaveRule(ctx context.Context, rule *model.Rule) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.CreateRule(ctx, rule)
	})
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}

func (r *ruleRepoImpl) UpdateRule(ctx context.Context, rule *model.Rule) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.UpdateRule(ctx, rule)
	})
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}

func (r *ruleRepoImpl) DeleteRule(ctx context.Context, ruleID string) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.DeleteRule(ctx, ruleID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}
