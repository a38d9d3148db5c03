package repo

import (
	"context"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// RuleRepositoryIface 规则仓库。ListRules 返回共享的只读快照，调用方不得修改
type RuleRepositoryIface interface {
	ListRules(ctx context.Context) ([]*model.Rule, error)
	GetRule(ctx context.Context, ruleID string) (*model.Rule, error)
	SaveRule(ctx context.Context, rule *model.Rule) error
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, ruleID string) error
}

// QueryHeaderRepositoryIface 条件组仓库
type QueryHeaderRepositoryIface interface {
	ListGroups(ctx context.Context) ([]*model.QueryHeaderRule, error)
	ListGroupsByEndpoint(ctx context.Context, endpointID string) ([]*model.QueryHeaderRule, error)
	GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error)
	SaveGroup(ctx context.Context, group *model.QueryHeaderRule) error
	UpdateGroup(ctx context.Context, group *model.QueryHeaderRule) error
	DeleteGroup(ctx context.Context, groupID string) error
}
