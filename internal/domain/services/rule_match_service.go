package services

import (
	"context"
	"errors"
	"fmt"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/internal/infra/repo"
	"go_mockapi_server/utils"
)

type RuleMatchService struct {
	ruleRepo  repo.RuleRepositoryIface
	groupRepo repo.QueryHeaderRepositoryIface
}

var _ iface.RuleMatchService = (*RuleMatchService)(nil)

func NewRuleMatchService(ruleRepo repo.RuleRepositoryIface, groupRepo repo.QueryHeaderRepositoryIface) *RuleMatchService {
	return &RuleMatchService{ruleRepo: ruleRepo, groupRepo: groupRepo}
}

// MatchRule 线性扫描规则快照，第一条全部条件通过的规则胜出。
// 检查顺序：项目与方法、matchType、状态条件、query/header 条件组
func (s *RuleMatchService) MatchRule(ctx context.Context, req *model.RequestContext) (*model.MatchResult, error) {
	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	for _, rule := range rules {
		if rule.ProjectName != req.Project || rule.Method != req.Method {
			continue
		}
		params, ok := rule.MatchRequest(req)
		if !ok {
			continue
		}
		if !rule.MatchState(req.State) {
			continue
		}
		ok, err := s.matchGroup(ctx, rule, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		utils.GetLogger().Debugf("request %s %s matched rule %s", req.Method, req.RawPath, rule.ID)
		return &model.MatchResult{Rule: rule, PathParams: params}, nil
	}
	return nil, nil
}

// matchGroup 无条件组或条件组已被删除时视为无约束
func (s *RuleMatchService) matchGroup(ctx context.Context, rule *model.Rule, req *model.RequestContext) (bool, error) {
	if rule.QueryHeaderRuleID == "" {
		return true, nil
	}
	group, err := s.groupRepo.GetGroup(ctx, rule.QueryHeaderRuleID)
	if errors.Is(err, model.ErrGroupNotFound) {
		utils.GetLogger().Warnf("rule %s references missing query/header rule %s, treated as unconstrained", rule.ID, rule.QueryHeaderRuleID)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load query/header rule: %w", err)
	}
	return group.Evaluate(req), nil
}
