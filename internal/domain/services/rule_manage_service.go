package services

import (
	"context"
	"fmt"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/internal/infra/repo"

	"github.com/google/uuid"
)

type RuleManageService struct {
	ruleRepo repo.RuleRepositoryIface
}

var _ iface.RuleService = (*RuleManageService)(nil)

func NewRuleManageService(ruleRepo repo.RuleRepositoryIface) *RuleManageService {
	return &RuleManageService{
		ruleRepo: ruleRepo,
	}
}

// CreateRule 创建规则，id 由服务端生成
func (s *RuleManageService) CreateRule(ctx context.Context, rule *model.Rule) (*model.Rule, error) {
	rule = rule.Clone()
	rule.ID = uuid.NewString()
	rule.CreatedAt, rule.UpdatedAt = 0, 0

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("rule validation failed: %w", err)
	}
	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save rule to repository: %w", err)
	}
	return rule, nil
}

func (s *RuleManageService) ListRules(ctx context.Context) ([]*model.Rule, error) {
	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (s *RuleManageService) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	return s.ruleRepo.GetRule(ctx, ruleID)
}

// ReplaceRule 全量更新；请求体中的 id 被忽略
func (s *RuleManageService) ReplaceRule(ctx context.Context, ruleID string, rule *model.Rule) (*model.Rule, error) {
	existing, err := s.ruleRepo.GetRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	updated := rule.Clone()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	return s.update(ctx, updated)
}

// PatchRule 部分更新；补丁不包含 id 字段，因此 id 不可能被修改
func (s *RuleManageService) PatchRule(ctx context.Context, ruleID string, patch *model.RulePatch) (*model.Rule, error) {
	existing, err := s.ruleRepo.GetRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, patch.Apply(existing))
}

func (s *RuleManageService) update(ctx context.Context, rule *model.Rule) (*model.Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("rule validation failed: %w", err)
	}
	if err := s.ruleRepo.UpdateRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule in repository: %w", err)
	}
	return rule, nil
}

// DeleteRule 删除规则，不级联删除条件组
func (s *RuleManageService) DeleteRule(ctx context.Context, ruleID string) error {
	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}
