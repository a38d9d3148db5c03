package storage

import (
	"context"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// RuleStorageIface 规则持久化接口，ListRules 按插入顺序返回
type RuleStorageIface interface {
	ListRules(ctx context.Context) ([]*model.Rule, error)
	GetRule(ctx context.Context, ruleID string) (*model.Rule, error)
	CreateRule(ctx context.Context, rule *model.Rule) error
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, ruleID string) error
}

// QueryHeaderStorageIface query/header 条件组持久化接口
type QueryHeaderStorageIface interface {
	ListGroups(ctx context.Context) ([]*model.QueryHeaderRule, error)
	GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error)
	CreateGroup(ctx context.Context, group *model.QueryHeaderRule) error
	UpdateGroup(ctx context.Context, group *model.QueryHeaderRule) error
	DeleteGroup(ctx context.Context, groupID string) error
}

// StateStorageIface 状态存储：Data Store、List、Counter 三类变量
type StateStorageIface interface {
	Snapshot(ctx context.Context) (*model.StateSnapshot, error)
	SetData(ctx context.Context, name string, value any) error
	AppendList(ctx context.Context, name string, value any) error
	IncrementCounter(ctx context.Context, name string, delta float64) (float64, error)
	Reset(ctx context.Context) error
}
