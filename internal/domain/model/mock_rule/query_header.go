package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go_mockapi_server/utils"
)

var ErrConditionIndex = errors.New("condition index out of range")

// QueryHeaderRule 附加的 query/header 条件组，组内条件 AND 组合
type QueryHeaderRule struct {
	ID         string                 `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EndpointID string                 `gorm:"type:varchar(36);index" json:"endpointId" validate:"required"`
	Conditions []QueryHeaderCondition `gorm:"serializer:json" json:"conditions" validate:"dive"`
	CreatedAt  int64                  `gorm:"autoCreateTime:nano;index" json:"createdAt"`
	UpdatedAt  int64                  `gorm:"autoUpdateTime:nano" json:"updatedAt"`
}

// QueryHeaderCondition 单个 query/header 条件
type QueryHeaderCondition struct {
	Type     ConditionSource `json:"type" validate:"required,oneof=query header"`
	Name     string          `json:"name" validate:"required"`
	Operator string          `json:"operator" validate:"required,oneof=equals not_equals contains regex"`
	Value    string          `json:"value"`
}

func (c QueryHeaderCondition) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	return nil
}

// Clone copies the group including its condition slice.
func (g *QueryHeaderRule) Clone() *QueryHeaderRule {
	out := *g
	out.Conditions = append([]QueryHeaderCondition(nil), g.Conditions...)
	return &out
}

// Evaluate 组内所有条件都成立才返回 true，空组视为无约束
func (g *QueryHeaderRule) Evaluate(req *RequestContext) bool {
	for _, cond := range g.Conditions {
		if !cond.Evaluate(req) {
			return false
		}
	}
	return true
}

// Evaluate 取 query[name] 或 headers[lower(name)]，缺失即不成立
func (c QueryHeaderCondition) Evaluate(req *RequestContext) bool {
	var actual string
	var ok bool
	switch c.Type {
	case ConditionSourceQuery:
		actual, ok = req.Query[c.Name]
	case ConditionSourceHeader:
		actual, ok = req.Headers[strings.ToLower(c.Name)]
	}
	if !ok {
		return false
	}

	switch c.Operator {
	case OpEquals:
		return actual == c.Value
	case OpNotEquals:
		return actual != c.Value
	case OpContains:
		return strings.Contains(actual, c.Value)
	case OpRegex:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			utils.GetLogger().Warnf("invalid regex in %s condition %q: %v", c.Type, c.Name, err)
			return false
		}
		return re.MatchString(actual)
	}
	return false
}
