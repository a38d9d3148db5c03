package iface

import (
	"context"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// RuleService 规则管理服务接口
type RuleService interface {
	// CreateRule 校验后分配 id 并保存
	CreateRule(ctx context.Context, rule *model.Rule) (*model.Rule, error)
	ListRules(ctx context.Context) ([]*model.Rule, error)
	GetRule(ctx context.Context, ruleID string) (*model.Rule, error)
	// ReplaceRule 整体替换，id 与创建时间不变
	ReplaceRule(ctx context.Context, ruleID string, rule *model.Rule) (*model.Rule, error)
	// PatchRule 部分更新，id 不变
	PatchRule(ctx context.Context, ruleID string, patch *model.RulePatch) (*model.Rule, error)
	DeleteRule(ctx context.Context, ruleID string) error
}

// QueryHeaderService query/header 条件组服务接口
type QueryHeaderService interface {
	CreateGroup(ctx context.Context, endpointID string) (*model.QueryHeaderRule, error)
	GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error)
	ListByEndpoint(ctx context.Context, endpointID string) ([]*model.QueryHeaderRule, error)
	DeleteGroup(ctx context.Context, groupID string) error
	AddCondition(ctx context.Context, groupID string, cond model.QueryHeaderCondition) (*model.QueryHeaderRule, error)
	UpdateCondition(ctx context.Context, groupID string, index int, cond model.QueryHeaderCondition) (*model.QueryHeaderRule, error)
	RemoveCondition(ctx context.Context, groupID string, index int) (*model.QueryHeaderRule, error)
	EvaluateGroup(ctx context.Context, groupID string, req *model.RequestContext) (bool, error)
}

type RuleMatchService interface {
	// MatchRule 按存储顺序返回第一条命中的规则，未命中返回 nil
	MatchRule(ctx context.Context, req *model.RequestContext) (*model.MatchResult, error)
}

type ResponseService interface {
	// Synthesize 选择响应、等待延迟、渲染模板并规整 JSON
	Synthesize(ctx context.Context, match *model.MatchResult, req *model.RequestContext) (model.ResponseInfo, error)
	// ValidateTemplate 模板静态检查，仅作提示
	ValidateTemplate(src string) []error
}

// StateService 状态变量读写
type StateService interface {
	Snapshot(ctx context.Context) (*model.StateSnapshot, error)
	SetData(ctx context.Context, name string, value any) error
	AppendList(ctx context.Context, name string, value any) error
	IncrementCounter(ctx context.Context, name string, delta float64) (float64, error)
	Reset(ctx context.Context) error
}
