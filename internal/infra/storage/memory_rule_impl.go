package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// MemoryRuleStorage 进程内规则存储，保存副本，读写由 RWMutex 保护
type MemoryRuleStorage struct {
	mu    sync.RWMutex
	order []string
	rules map[string]*model.Rule
}

var _ RuleStorageIface = (*MemoryRuleStorage)(nil)

func NewMemoryRuleStorage() *MemoryRuleStorage {
	return &MemoryRuleStorage{rules: make(map[string]*model.Rule)}
}

func (s *MemoryRuleStorage) ListRules(ctx context.Context) ([]*model.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rules[id].Clone())
	}
	return out, nil
}

func (s *MemoryRuleStorage) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrRuleNotFound, ruleID)
	}
	return rule.Clone(), nil
}

func (s *MemoryRuleStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[rule.ID]; ok {
		return fmt.Errorf("rule %s already exists", rule.ID)
	}
	now := time.Now().UnixNano()
	if rule.CreatedAt == 0 {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	s.rules[rule.ID] = rule.Clone()
	s.order = append(s.order, rule.ID)
	return nil
}

func (s *MemoryRuleStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.rules[rule.ID]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrRuleNotFound, rule.ID)
	}
	// 更新不改变插入顺序
	rule.CreatedAt = old.CreatedAt
	rule.UpdatedAt = time.Now().UnixNano()
	s.rules[rule.ID] = rule.Clone()
	return nil
}

func (s *MemoryRuleStorage) DeleteRule(ctx context.Context, ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[ruleID]; !ok {
		return fmt.Errorf("%w: %s", model.ErrRuleNotFound, ruleID)
	}
	delete(s.rules, ruleID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == ruleID })
	return nil
}

// MemoryQueryHeaderStorage 进程内条件组存储
type MemoryQueryHeaderStorage struct {
	mu     sync.RWMutex
	order  []string
	groups map[string]*model.QueryHeaderRule
}

var _ QueryHeaderStorageIface = (*MemoryQueryHeaderStorage)(nil)

func NewMemoryQueryHeaderStorage() *MemoryQueryHeaderStorage {
	return &MemoryQueryHeaderStorage{groups: make(map[string]*model.QueryHeaderRule)}
}

func (s *MemoryQueryHeaderStorage) ListGroups(ctx context.Context) ([]*model.QueryHeaderRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.QueryHeaderRule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.groups[id].Clone())
	}
	return out, nil
}

func (s *MemoryQueryHeaderStorage) GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrGroupNotFound, groupID)
	}
	return group.Clone(), nil
}

func (s *MemoryQueryHeaderStorage) CreateGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; ok {
		return fmt.Errorf("query/header rule %s already exists", group.ID)
	}
	now := time.Now().UnixNano()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = now
	s.groups[group.ID] = group.Clone()
	s.order = append(s.order, group.ID)
	return nil
}

func (s *MemoryQueryHeaderStorage) UpdateGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.groups[group.ID]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, group.ID)
	}
	group.CreatedAt = old.CreatedAt
	group.UpdatedAt = time.Now().UnixNano()
	s.groups[group.ID] = group.Clone()
	return nil
}

func (s *MemoryQueryHeaderStorage) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, groupID)
	}
	delete(s.groups, groupID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == groupID })
	return nil
}
