package template

import (
	"strings"

	model "go_mockapi_server/internal/domain/model/mock_rule"
)

// scope is one level of variable lookup. The root scope holds the render
// data; each loop iteration pushes a child bound to the current item.
type scope struct {
	parent *scope
	data   map[string]any
	item   any
	locals map[string]any
}

func newRootScope(data map[string]any) *scope {
	if data == nil {
		data = map[string]any{}
	}
	return &scope{data: data}
}

func (s *scope) child(item any, index, total int) *scope {
	return &scope{
		parent: s,
		item:   item,
		locals: map[string]any{
			"@index": float64(index),
			"@key":   float64(index),
			"@first": index == 0,
			"@last":  index == total-1,
		},
	}
}

// lookup resolves a dotted path. Loop scopes check this/@-variables, then the
// current item's own fields, then the enclosing scope.
func (s *scope) lookup(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.locals == nil {
			return model.LookupPath(cur.data, path)
		}
		if v, ok := cur.lookupLocal(path); ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) lookupLocal(path string) (any, bool) {
	if path == "this" || path == "." {
		return s.item, true
	}
	if rest, ok := strings.CutPrefix(path, "this."); ok {
		return model.LookupPath(s.item, rest)
	}
	if v, ok := s.locals[path]; ok {
		return v, true
	}
	if _, isMap := s.item.(map[string]any); isMap {
		return model.LookupPath(s.item, path)
	}
	return nil, false
}
