package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/internal/infra/repo"
	"go_mockapi_server/utils"

	"github.com/google/uuid"
)

type QueryHeaderService struct {
	groupRepo repo.QueryHeaderRepositoryIface
	ruleRepo  repo.RuleRepositoryIface
}

var _ iface.QueryHeaderService = (*QueryHeaderService)(nil)

func NewQueryHeaderService(groupRepo repo.QueryHeaderRepositoryIface, ruleRepo repo.RuleRepositoryIface) *QueryHeaderService {
	return &QueryHeaderService{groupRepo: groupRepo, ruleRepo: ruleRepo}
}

// CreateGroup 创建空条件组；所属规则尚未关联条件组时自动关联
func (s *QueryHeaderService) CreateGroup(ctx context.Context, endpointID string) (*model.QueryHeaderRule, error) {
	if endpointID == "" {
		return nil, fmt.Errorf("%w: endpointId is required", model.ErrInvalidRule)
	}
	group := &model.QueryHeaderRule{
		ID:         uuid.NewString(),
		EndpointID: endpointID,
		Conditions: []model.QueryHeaderCondition{},
	}
	if err := s.groupRepo.SaveGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save query/header rule: %w", err)
	}

	rule, err := s.ruleRepo.GetRule(ctx, endpointID)
	switch {
	case errors.Is(err, model.ErrRuleNotFound):
		utils.GetLogger().Warnf("query/header rule %s created for unknown endpoint %s", group.ID, endpointID)
	case err != nil:
		return nil, fmt.Errorf("failed to load owning rule: %w", err)
	case rule.QueryHeaderRuleID == "":
		rule.QueryHeaderRuleID = group.ID
		if err := s.ruleRepo.UpdateRule(ctx, rule); err != nil {
			return nil, fmt.Errorf("failed to link query/header rule: %w", err)
		}
	}
	return group, nil
}

func (s *QueryHeaderService) GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error) {
	return s.groupRepo.GetGroup(ctx, groupID)
}

func (s *QueryHeaderService) ListByEndpoint(ctx context.Context, endpointID string) ([]*model.QueryHeaderRule, error) {
	groups, err := s.groupRepo.ListGroupsByEndpoint(ctx, endpointID)
	if err != nil {
		return nil, fmt.Errorf("failed to list query/header rules: %w", err)
	}
	return groups, nil
}

// DeleteGroup 删除条件组；引用它的规则随后视为无约束
func (s *QueryHeaderService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.groupRepo.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete query/header rule: %w", err)
	}
	return nil
}

func (s *QueryHeaderService) AddCondition(ctx context.Context, groupID string, cond model.QueryHeaderCondition) (*model.QueryHeaderRule, error) {
	return s.modify(ctx, groupID, func(g *model.QueryHeaderRule) error {
		if err := cond.Validate(); err != nil {
			return err
		}
		g.Conditions = append(g.Conditions, cond)
		return nil
	})
}

func (s *QueryHeaderService) UpdateCondition(ctx context.Context, groupID string, index int, cond model.QueryHeaderCondition) (*model.QueryHeaderRule, error) {
	return s.modify(ctx, groupID, func(g *model.QueryHeaderRule) error {
		if index < 0 || index >= len(g.Conditions) {
			return fmt.Errorf("%w: %d", model.ErrConditionIndex, index)
		}
		if err := cond.Validate(); err != nil {
			return err
		}
		g.Conditions[index] = cond
		return nil
	})
}

func (s *QueryHeaderService) RemoveCondition(ctx context.Context, groupID string, index int) (*model.QueryHeaderRule, error) {
	return s.modify(ctx, groupID, func(g *model.QueryHeaderRule) error {
		if index < 0 || index >= len(g.Conditions) {
			return fmt.Errorf("%w: %d", model.ErrConditionIndex, index)
		}
		g.Conditions = slices.Delete(g.Conditions, index, index+1)
		return nil
	})
}

// modify 读取副本、修改后整体写回
func (s *QueryHeaderService) modify(ctx context.Context, groupID string, fn func(*model.QueryHeaderRule) error) (*model.QueryHeaderRule, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := fn(group); err != nil {
		return nil, err
	}
	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update query/header rule: %w", err)
	}
	return group, nil
}

// EvaluateGroup 组内条件 AND 求值，空组为 true
func (s *QueryHeaderService) EvaluateGroup(ctx context.Context, groupID string, req *model.RequestContext) (bool, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	return group.Evaluate(req), nil
}
