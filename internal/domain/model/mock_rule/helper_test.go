package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitProjectPath(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantProject  string
		wantEndpoint string
	}{
		{
			name:         "simple path",
			path:         "/proj/users/1",
			wantProject:  "proj",
			wantEndpoint: "/users/1",
		},
		{
			name:         "project only",
			path:         "/proj",
			wantProject:  "proj",
			wantEndpoint: "/",
		},
		{
			name:         "project with trailing slash",
			path:         "/proj/",
			wantProject:  "proj",
			wantEndpoint: "/",
		},
		{
			name:         "encoded segment",
			path:         "/proj/search/a%20b",
			wantProject:  "proj",
			wantEndpoint: "/search/a b",
		},
		{
			name:         "invalid escape is kept",
			path:         "/proj/bad%zz",
			wantProject:  "proj",
			wantEndpoint: "/bad%zz",
		},
		{
			name:         "empty path",
			path:         "",
			wantProject:  "",
			wantEndpoint: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, endpoint := SplitProjectPath(tt.path)
			assert.Equal(t, tt.wantProject, project)
			assert.Equal(t, tt.wantEndpoint, endpoint)
		})
	}
}

func TestMatchTemplatePath(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		path       string
		wantMatch  bool
		wantParams map[string]string
	}{
		{
			name:       "single param",
			template:   "/users/{id}",
			path:       "/users/42",
			wantMatch:  true,
			wantParams: map[string]string{"id": "42"},
		},
		{
			name:      "extra segment",
			template:  "/users/{id}",
			path:      "/users/42/extra",
			wantMatch: false,
		},
		{
			name:      "literal mismatch",
			template:  "/users/{id}",
			path:      "/orders/42",
			wantMatch: false,
		},
		{
			name:       "multiple params",
			template:   "/users/{userId}/orders/{orderId}",
			path:       "/users/7/orders/99",
			wantMatch:  true,
			wantParams: map[string]string{"userId": "7", "orderId": "99"},
		},
		{
			name:      "empty segment does not satisfy param",
			template:  "/users/{id}/x",
			path:      "/users//x",
			wantMatch: false,
		},
		{
			name:       "no params",
			template:   "/health",
			path:       "/health",
			wantMatch:  true,
			wantParams: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := MatchTemplatePath(tt.template, tt.path)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestLookupPath(t *testing.T) {
	root := map[string]any{
		"user": map[string]any{
			"name": "sam",
			"tags": []any{"a", "b"},
		},
		"headers": map[string]string{"x-id": "1"},
		"count":   float64(4),
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "nested map", path: "user.name", want: "sam", wantOK: true},
		{name: "slice index", path: "user.tags.1", want: "b", wantOK: true},
		{name: "slice length", path: "user.tags.length", want: float64(2), wantOK: true},
		{name: "string map", path: "headers.x-id", want: "1", wantOK: true},
		{name: "missing key", path: "user.age", wantOK: false},
		{name: "through scalar", path: "count.value", wantOK: false},
		{name: "index out of range", path: "user.tags.5", wantOK: false},
		{name: "empty path", path: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupPath(root, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "5", Stringify(float64(5)))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, `{"a":"<b>"}`, Stringify(map[string]any{"a": "<b>"}))
	assert.Equal(t, `[1,"x"]`, Stringify([]any{float64(1), "x"}))
}
