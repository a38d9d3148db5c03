package services

import (
	"context"
	"encoding/json"
	"testing"

	model "go_mockapi_server/internal/domain/model/mock_rule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRule(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	in := baseRule("/users")
	in.ID = "client-chosen"
	in.Method = "post"

	created, err := s.manage.CreateRule(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", created.ID)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "POST", created.Method)
	assert.Equal(t, "client-chosen", in.ID, "input must not be mutated")

	got, err := s.manage.GetRule(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Path, got.Path)
}

func TestCreateRuleValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	tests := []struct {
		name string
		edit func(r *model.Rule)
	}{
		{"missing project", func(r *model.Rule) { r.ProjectName = "" }},
		{"bad status", func(r *model.Rule) { r.Status = 99 }},
		{"invalid regex", func(r *model.Rule) { r.MatchType = model.MatchPathRegex; r.Path = "/users/(" }},
		{"unknown match type", func(r *model.Rule) { r.MatchType = "fuzzy" }},
		{"negative delay", func(r *model.Rule) { r.Delay = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRule("/users")
			tt.edit(r)
			_, err := s.manage.CreateRule(ctx, r)
			assert.ErrorIs(t, err, model.ErrInvalidRule)
		})
	}

	rules, err := s.manage.ListRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestReplaceRuleKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	created, err := s.manage.CreateRule(ctx, baseRule("/a"))
	require.NoError(t, err)

	replacement := baseRule("/b")
	replacement.ID = "other"
	replaced, err := s.manage.ReplaceRule(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, "/b", replaced.Path)

	_, err = s.manage.GetRule(ctx, "other")
	assert.ErrorIs(t, err, model.ErrRuleNotFound)

	_, err = s.manage.ReplaceRule(ctx, "missing", baseRule("/c"))
	assert.ErrorIs(t, err, model.ErrRuleNotFound)
}

// 部分更新时即使请求体带了别的 id，规则 id 也不变
func TestPatchRuleImmutableID(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	created, err := s.manage.CreateRule(ctx, baseRule("/a"))
	require.NoError(t, err)

	var patch model.RulePatch
	require.NoError(t, json.Unmarshal([]byte(`{"id":"hijack","method":"PUT","body":"changed"}`), &patch))

	patched, err := s.manage.PatchRule(ctx, created.ID, &patch)
	require.NoError(t, err)
	assert.Equal(t, created.ID, patched.ID)
	assert.Equal(t, "PUT", patched.Method)
	assert.Equal(t, "changed", patched.Body)
	assert.Equal(t, "/a", patched.Path)

	rules, err := s.manage.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, created.ID, rules[0].ID)
	assert.Equal(t, "changed", rules[0].Body)
}

func TestPatchRuleRejectsInvalidResult(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	created, err := s.manage.CreateRule(ctx, baseRule("/a"))
	require.NoError(t, err)

	bad := model.MatchPathRegex
	pattern := "("
	_, err = s.manage.PatchRule(ctx, created.ID, &model.RulePatch{MatchType: &bad, Path: &pattern})
	assert.ErrorIs(t, err, model.ErrInvalidRule)

	got, err := s.manage.GetRule(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MatchPathExact, got.MatchType)
}

func TestDeleteRule(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	created, err := s.manage.CreateRule(ctx, baseRule("/a"))
	require.NoError(t, err)
	require.NoError(t, s.manage.DeleteRule(ctx, created.ID))
	assert.ErrorIs(t, s.manage.DeleteRule(ctx, created.ID), model.ErrRuleNotFound)
}
