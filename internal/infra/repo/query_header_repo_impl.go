package repo

import (
	"context"
	"fmt"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/internal/infra/storage"

	"github.com/panjf2000/ants/v2"
)

type queryHeaderRepoImpl struct {
	storage storage.QueryHeaderStorageIface
	config  *configs.RuleRepoConfig
	cache   *snapshotCache[*model.QueryHeaderRule]
}

var _ QueryHeaderRepositoryIface = (*queryHeaderRepoImpl)(nil)

func NewQueryHeaderRepoImpl(groupStorage storage.QueryHeaderStorageIface, config *configs.RuleRepoConfig, taskPool *ants.Pool) QueryHeaderRepositoryIface {
	r := &queryHeaderRepoImpl{
		storage: groupStorage,
		config:  config,
	}
	r.cache = &snapshotCache[*model.QueryHeaderRule]{
		name:        "query_header_rules",
		load:        groupStorage.ListGroups,
		id:          func(g *model.QueryHeaderRule) string { return g.ID },
		retryCount:  config.SnapshotRetryCount,
		retryDelay:  config.SnapshotRetryDelay,
		loadTimeout: config.SnapshotLoadTimeout,
		taskPool:    taskPool,
	}
	return r
}

func (r *queryHeaderRepoImpl) ListGroups(ctx context.Context) ([]*model.QueryHeaderRule, error) {
	s, err := r.cache.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.items, nil
}

func (r *queryHeaderRepoImpl) ListGroupsByEndpoint(ctx context.Context, endpointID string) ([]*model.QueryHeaderRule, error) {
	groups, err := r.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.QueryHeaderRule, 0)
	for _, g := range groups {
		if g.EndpointID == endpointID {
			out = append(out, g)
		}
	}
	return out, nil
}

// GetGroup 返回快照中条件组的副本
func (r *queryHeaderRepoImpl) GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error) {
	group, ok, err := r.cache.lookup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrGroupNotFound, groupID)
	}
	return group.Clone(), nil
}

func (r *queryHeaderRepoImpl) SaveGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.CreateGroup(ctx, group)
	})
	if err != nil {
		return fmt.Errorf("failed to save query/header rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}

func (r *queryHeaderRepoImpl) UpdateGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.UpdateGroup(ctx, group)
	})
	if err != nil {
		return fmt.Errorf("failed to update query/header rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}

func (r *queryHeaderRepoImpl) DeleteGroup(ctx context.Context, groupID string) error {
	err := retryWrite(ctx, r.config.StorageRetryCount, r.config.StorageRetryDelay, func() error {
		return r.storage.DeleteGroup(ctx, groupID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete query/header rule: %w", err)
	}
	r.cache.invalidate()
	return nil
}
