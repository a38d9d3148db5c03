package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StateSnapshot 某一时刻的状态存储快照
type StateSnapshot struct {
	Data     map[string]any     `json:"data"`
	Lists    map[string][]any   `json:"lists"`
	Counters map[string]float64 `json:"counters"`
}

// TemplateData exposes the snapshot as plain maps for template lookups.
func (s *StateSnapshot) TemplateData() map[string]any {
	out := map[string]any{
		"data":     map[string]any{},
		"lists":    map[string]any{},
		"counters": map[string]any{},
	}
	if s == nil {
		return out
	}
	data := out["data"].(map[string]any)
	for k, v := range s.Data {
		data[k] = v
	}
	lists := out["lists"].(map[string]any)
	for k, v := range s.Lists {
		lists[k] = v
	}
	counters := out["counters"].(map[string]any)
	for k, v := range s.Counters {
		counters[k] = v
	}
	return out
}

// StateCondition 基于状态变量的前置条件
type StateCondition struct {
	Variable string    `json:"variable" validate:"required"`
	Type     StateKind `json:"type" validate:"required"`
	Operator string    `json:"operator" validate:"required"`
	Value    string    `json:"value,omitempty"`
}

func (c StateCondition) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("unknown state type %q", c.Type)
	}
	if !slices.Contains(stateOperators[c.Type], c.Operator) {
		return fmt.Errorf("operator %q is not valid for %s", c.Operator, c.Type)
	}
	return nil
}

// Evaluate 对快照求值；变量缺失时仅否定类操作符成立
func (c StateCondition) Evaluate(s *StateSnapshot) bool {
	if s == nil {
		s = &StateSnapshot{}
	}
	switch c.Type {
	case StateKindDataStore:
		val, ok := s.Data[c.Variable]
		return c.evalData(val, ok)
	case StateKindList:
		val, ok := s.Lists[c.Variable]
		return c.evalList(val, ok)
	case StateKindCounter:
		val, ok := s.Counters[c.Variable]
		return c.evalCounter(val, ok)
	}
	return false
}

func (c StateCondition) evalMissing() bool {
	switch c.Operator {
	case StateOpNotExists, StateOpNotEquals, StateOpNotContains, StateOpIsEmpty:
		return true
	}
	return false
}

func (c StateCondition) evalData(val any, ok bool) bool {
	if !ok {
		return c.evalMissing()
	}
	str := Stringify(val)
	switch c.Operator {
	case StateOpExists:
		return true
	case StateOpNotExists:
		return false
	case StateOpEquals:
		return str == c.Value
	case StateOpNotEquals:
		return str != c.Value
	case StateOpContains:
		return strings.Contains(str, c.Value)
	case StateOpNotContains:
		return !strings.Contains(str, c.Value)
	}
	return false
}

func (c StateCondition) evalList(val []any, ok bool) bool {
	if !ok {
		return c.evalMissing()
	}
	contains := slices.ContainsFunc(val, func(item any) bool { return Stringify(item) == c.Value })
	switch c.Operator {
	case StateOpExists:
		return true
	case StateOpNotExists:
		return false
	case StateOpContains:
		return contains
	case StateOpNotContains:
		return !contains
	case StateOpIsEmpty:
		return len(val) == 0
	case StateOpIsNotEmpty:
		return len(val) > 0
	}

	n, err := strconv.Atoi(strings.TrimSpace(c.Value))
	if err != nil {
		return false
	}
	switch c.Operator {
	case StateOpLengthEquals:
		return len(val) == n
	case StateOpLengthGT:
		return len(val) > n
	case StateOpLengthLT:
		return len(val) < n
	}
	return false
}

func (c StateCondition) evalCounter(val float64, ok bool) bool {
	if !ok {
		return c.evalMissing()
	}
	switch c.Operator {
	case StateOpExists:
		return true
	case StateOpNotExists:
		return false
	}

	want, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil {
		return false
	}
	switch c.Operator {
	case StateOpEquals:
		return val == want
	case StateOpNotEquals:
		return val != want
	case StateOpGT:
		return val > want
	case StateOpLT:
		return val < want
	case StateOpGTE:
		return val >= want
	case StateOpLTE:
		return val <= want
	}
	return false
}
