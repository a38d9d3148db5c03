package model

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// SplitProjectPath 解码请求路径并拆出项目段
//
//	/proj/users/1        => proj, /users/1
//	/proj                => proj, /
//	/proj/a%20b          => proj, /a b
func SplitProjectPath(rawPath string) (project, endpoint string) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	trimmed := strings.TrimPrefix(decoded, "/")
	project, rest, found := strings.Cut(trimmed, "/")
	if !found {
		return project, "/"
	}
	return project, "/" + rest
}

// DecodePath URL-decodes a path, returning it unchanged when it is not valid escaping.
func DecodePath(rawPath string) string {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return rawPath
	}
	return decoded
}

// MatchTemplatePath checks a /users/{id} style template against a path.
// Segment counts must agree, literal segments must be equal and {name}
// segments match any non-empty segment. Captured values are returned by name.
func MatchTemplatePath(template, path string) (map[string]string, bool) {
	tplParts := strings.Split(strings.Trim(template, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(tplParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, part := range tplParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2 {
			if pathParts[i] == "" {
				return nil, false
			}
			params[part[1:len(part)-1]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

// LookupPath walks a dotted key through nested maps and slices.
// It never panics; the second result is false as soon as a segment is missing.
func LookupPath(root any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := root
	for _, key := range strings.Split(path, ".") {
		next, ok := lookupKey(current, key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func lookupKey(current any, key string) (any, bool) {
	switch v := current.(type) {
	case map[string]any:
		val, ok := v[key]
		return val, ok
	case map[string]string:
		val, ok := v[key]
		return val, ok
	case []any:
		return indexSlice(reflect.ValueOf(v), key)
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(current)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Slice, reflect.Array:
		return indexSlice(rv, key)
	case reflect.String:
		if key == "length" {
			return float64(len([]rune(rv.String()))), true
		}
	}
	return nil, false
}

func indexSlice(rv reflect.Value, key string) (any, bool) {
	if key == "length" {
		return float64(rv.Len()), true
	}
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= rv.Len() {
		return nil, false
	}
	return rv.Index(idx).Interface(), true
}

// Stringify 将任意值转换为字符串，JSON 体按紧凑 JSON 输出
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	}
	b, err := jsonMarshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
