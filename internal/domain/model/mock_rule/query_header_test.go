package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryHeaderRuleEvaluate(t *testing.T) {
	group := &QueryHeaderRule{
		ID:         "g1",
		EndpointID: "r1",
		Conditions: []QueryHeaderCondition{
			{Type: ConditionSourceQuery, Name: "env", Operator: OpEquals, Value: "qa"},
			{Type: ConditionSourceHeader, Name: "x-flag", Operator: OpContains, Value: "beta"},
		},
	}

	withFlag := newTestRequest("GET", "/proj/x?env=qa", "", map[string]string{"X-Flag": "beta-on"})
	assert.True(t, group.Evaluate(withFlag))

	withoutFlag := newTestRequest("GET", "/proj/x?env=qa", "", nil)
	assert.False(t, group.Evaluate(withoutFlag))

	empty := &QueryHeaderRule{ID: "g2", EndpointID: "r1"}
	assert.True(t, empty.Evaluate(withoutFlag))
}

func TestQueryHeaderConditionEvaluate(t *testing.T) {
	req := newTestRequest("GET", "/proj/x?page=2&sort=desc", "", map[string]string{"Authorization": "Bearer abc123"})

	tests := []struct {
		name string
		cond QueryHeaderCondition
		want bool
	}{
		{"query equals", QueryHeaderCondition{ConditionSourceQuery, "page", OpEquals, "2"}, true},
		{"query not_equals", QueryHeaderCondition{ConditionSourceQuery, "sort", OpNotEquals, "asc"}, true},
		{"query missing", QueryHeaderCondition{ConditionSourceQuery, "limit", OpNotEquals, "10"}, false},
		{"header lookup is case insensitive", QueryHeaderCondition{ConditionSourceHeader, "AUTHORIZATION", OpContains, "Bearer"}, true},
		{"header regex", QueryHeaderCondition{ConditionSourceHeader, "authorization", OpRegex, `^Bearer [a-z0-9]+$`}, true},
		{"header invalid regex", QueryHeaderCondition{ConditionSourceHeader, "authorization", OpRegex, `(`}, false},
		{"unknown operator", QueryHeaderCondition{ConditionSourceQuery, "page", "gt", "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(req))
		})
	}
}

func TestQueryHeaderConditionValidate(t *testing.T) {
	assert.NoError(t, QueryHeaderCondition{ConditionSourceHeader, "x", OpRegex, ".*"}.Validate())
	assert.Error(t, QueryHeaderCondition{"cookie", "x", OpEquals, "1"}.Validate())
	assert.Error(t, QueryHeaderCondition{ConditionSourceQuery, "", OpEquals, "1"}.Validate())
	assert.Error(t, QueryHeaderCondition{ConditionSourceQuery, "x", "like", "1"}.Validate())
}
