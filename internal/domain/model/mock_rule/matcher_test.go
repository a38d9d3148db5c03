package model

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(method, target, body string, headers map[string]string) *RequestContext {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return NewHTTPRequest(r)
}

func TestRuleMatchRequest(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		req       *RequestContext
		wantMatch bool
	}{
		{
			name:      "path_exact hit",
			rule:      Rule{MatchType: MatchPathExact, Path: "/users/1"},
			req:       newTestRequest("GET", "/proj/users/1", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_exact miss",
			rule:      Rule{MatchType: MatchPathExact, Path: "/users/1"},
			req:       newTestRequest("GET", "/proj/users/2", "", nil),
			wantMatch: false,
		},
		{
			name:      "legacy empty match type is exact",
			rule:      Rule{Path: "/users"},
			req:       newTestRequest("GET", "/proj/users", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_starts",
			rule:      Rule{MatchType: MatchPathStarts, Path: "/api/v1"},
			req:       newTestRequest("GET", "/proj/api/v1/items", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_contains with match value",
			rule:      Rule{MatchType: MatchPathContains, Path: "/ignored", MatchValue: "items"},
			req:       newTestRequest("GET", "/proj/api/v1/items/3", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_contains on decoded path",
			rule:      Rule{MatchType: MatchPathContains, Path: "a b"},
			req:       newTestRequest("GET", "/proj/search/a%20b", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_regex hit",
			rule:      Rule{MatchType: MatchPathRegex, Path: `^/orders/\d+$`},
			req:       newTestRequest("GET", "/proj/orders/12", "", nil),
			wantMatch: true,
		},
		{
			name:      "path_regex invalid pattern never matches",
			rule:      Rule{MatchType: MatchPathRegex, Path: `[invalid`},
			req:       newTestRequest("GET", "/proj/anything", "", nil),
			wantMatch: false,
		},
		{
			name:      "body_contains raw text",
			rule:      Rule{MatchType: MatchBodyContains, MatchValue: "hello"},
			req:       newTestRequest("POST", "/proj/x", "say hello world", nil),
			wantMatch: true,
		},
		{
			name:      "body_contains JSON",
			rule:      Rule{MatchType: MatchBodyContains, MatchValue: `"type":"card"`},
			req:       newTestRequest("POST", "/proj/pay", `{"type":"card","amount":5}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_param equals",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "type", ParamOperator: ParamOpEquals, ParamValue: "card"},
			req:       newTestRequest("POST", "/proj/pay", `{"type":"card"}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_param dotted contains",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "user.email", ParamOperator: ParamOpContains, ParamValue: "@example"},
			req:       newTestRequest("POST", "/proj/u", `{"user":{"email":"a@example.com"}}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_param starts_with number",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "amount", ParamOperator: ParamOpStartsWith, ParamValue: "12"},
			req:       newTestRequest("POST", "/proj/pay", `{"amount":125}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_param exists",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "token", ParamOperator: ParamOpExists},
			req:       newTestRequest("POST", "/proj/login", `{"token":null}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_param missing field",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "token", ParamOperator: ParamOpExists},
			req:       newTestRequest("POST", "/proj/login", `{"user":"x"}`, nil),
			wantMatch: false,
		},
		{
			name:      "body_param non JSON body",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "type", ParamValue: "card"},
			req:       newTestRequest("POST", "/proj/pay", `type=card`, nil),
			wantMatch: false,
		},
		{
			name:      "body_param JSONPath",
			rule:      Rule{MatchType: MatchBodyParam, ParamName: "$.items[0].sku", ParamOperator: ParamOpEquals, ParamValue: "A1"},
			req:       newTestRequest("POST", "/proj/cart", `{"items":[{"sku":"A1"},{"sku":"B2"}]}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_regex",
			rule:      Rule{MatchType: MatchBodyRegex, MatchValue: `"id":\s*\d+`},
			req:       newTestRequest("POST", "/proj/x", `{"id": 77}`, nil),
			wantMatch: true,
		},
		{
			name:      "body_regex invalid",
			rule:      Rule{MatchType: MatchBodyRegex, MatchValue: `(`},
			req:       newTestRequest("POST", "/proj/x", `(`, nil),
			wantMatch: false,
		},
		{
			name:      "header_regex case insensitive name",
			rule:      Rule{MatchType: MatchHeaderRegex, HeaderName: "X-Client", HeaderValue: `^mobile-\d+$`},
			req:       newTestRequest("GET", "/proj/x", "", map[string]string{"x-client": "mobile-3"}),
			wantMatch: true,
		},
		{
			name:      "header_regex missing header",
			rule:      Rule{MatchType: MatchHeaderRegex, HeaderName: "X-Client", HeaderValue: `.*`},
			req:       newTestRequest("GET", "/proj/x", "", nil),
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.rule.MatchRequest(tt.req)
			assert.Equal(t, tt.wantMatch, ok)
		})
	}
}

func TestRuleMatchRequestCaptures(t *testing.T) {
	t.Run("path_template params", func(t *testing.T) {
		rule := Rule{MatchType: MatchPathTemplate, Path: "/users/{id}"}
		params, ok := rule.MatchRequest(newTestRequest("GET", "/proj/users/42", "", nil))
		require.True(t, ok)
		assert.Equal(t, map[string]string{"id": "42"}, params)

		_, ok = rule.MatchRequest(newTestRequest("GET", "/proj/users/42/extra", "", nil))
		assert.False(t, ok)
	})

	t.Run("path_regex named groups", func(t *testing.T) {
		rule := Rule{MatchType: MatchPathRegex, Path: `^/orders/(?P<orderId>\d+)$`}
		require.NoError(t, rule.Compile())
		params, ok := rule.MatchRequest(newTestRequest("GET", "/proj/orders/9", "", nil))
		require.True(t, ok)
		assert.Equal(t, map[string]string{"orderId": "9"}, params)
	})
}

func TestRuleMatchState(t *testing.T) {
	snapshot := &StateSnapshot{
		Data:     map[string]any{"mode": "maintenance"},
		Lists:    map[string][]any{"cart": {"apple"}},
		Counters: map[string]float64{"hits": 3},
	}
	rule := Rule{StateConditions: []StateCondition{
		{Variable: "mode", Type: StateKindDataStore, Operator: StateOpEquals, Value: "maintenance"},
		{Variable: "hits", Type: StateKindCounter, Operator: StateOpGTE, Value: "3"},
	}}
	assert.True(t, rule.MatchState(snapshot))

	rule.StateConditions = append(rule.StateConditions, StateCondition{Variable: "cart", Type: StateKindList, Operator: StateOpIsEmpty})
	assert.False(t, rule.MatchState(snapshot))

	assert.True(t, (&Rule{}).MatchState(nil))
}
