package model

import (
	"regexp"
	"strings"

	"go_mockapi_server/utils"

	"github.com/ohler55/ojg/jp"
)

// MatchResult 匹配成功的规则及路径参数
type MatchResult struct {
	Rule       *Rule
	PathParams map[string]string
}

// MatchRequest 按规则的 matchType 判断请求是否命中，不检查项目、方法与状态条件
func (r *Rule) MatchRequest(req *RequestContext) (map[string]string, bool) {
	switch r.MatchType {
	case "", MatchPathExact:
		return nil, req.Path == r.Pattern()
	case MatchPathStarts:
		return nil, strings.HasPrefix(req.Path, r.Pattern())
	case MatchPathContains:
		return nil, strings.Contains(req.Path, r.Pattern())
	case MatchPathTemplate:
		return MatchTemplatePath(r.Pattern(), req.Path)
	case MatchPathRegex:
		return r.matchPathRegex(req)
	case MatchBodyContains:
		return nil, strings.Contains(req.BodyString(), r.MatchValue)
	case MatchBodyParam:
		return nil, r.matchBodyParam(req)
	case MatchBodyRegex:
		re, ok := r.regexOrLog()
		return nil, ok && re.MatchString(req.BodyString())
	case MatchHeaderRegex:
		value, found := req.Header(r.HeaderName)
		if !found {
			return nil, false
		}
		re, ok := r.regexOrLog()
		return nil, ok && re.MatchString(value)
	default:
		utils.GetLogger().Warnf("rule %s has unknown match type: %s", r.ID, r.MatchType)
		return nil, false
	}
}

// MatchState 所有状态条件 AND 组合
func (r *Rule) MatchState(s *StateSnapshot) bool {
	for _, cond := range r.StateConditions {
		if !cond.Evaluate(s) {
			return false
		}
	}
	return true
}

func (r *Rule) regexOrLog() (*regexp.Regexp, bool) {
	re, ok := r.Regexp()
	if !ok {
		utils.GetLogger().Warnf("rule %s has an invalid %s pattern %q, treating as no match", r.ID, r.MatchType, r.regexSource())
		return nil, false
	}
	return re, true
}

func (r *Rule) matchPathRegex(req *RequestContext) (map[string]string, bool) {
	re, ok := r.Regexp()
	if !ok {
		utils.GetLogger().Warnf("rule %s has an invalid path_regex pattern %q, treating as no match", r.ID, r.Pattern())
		return nil, false
	}
	m := re.FindStringSubmatch(req.Path)
	if m == nil {
		return nil, false
	}
	var params map[string]string
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[name] = m[i]
	}
	return params, true
}

func (r *Rule) matchBodyParam(req *RequestContext) bool {
	value, found := lookupBodyParam(req.Body, r.ParamName)
	if r.ParamOperator == ParamOpExists {
		return found
	}
	if !found {
		return false
	}
	actual := Stringify(value)
	switch r.ParamOperator {
	case "", ParamOpEquals:
		return actual == r.ParamValue
	case ParamOpContains:
		return strings.Contains(actual, r.ParamValue)
	case ParamOpStartsWith:
		return strings.HasPrefix(actual, r.ParamValue)
	}
	return false
}

// lookupBodyParam 支持 user.id 形式的点分 key，以 $ 开头时按 JSONPath 处理
func lookupBodyParam(body any, name string) (any, bool) {
	if body == nil {
		return nil, false
	}
	if strings.HasPrefix(name, "$") {
		expr, err := jp.ParseString(name)
		if err != nil {
			utils.GetLogger().Debugf("invalid JSONPath %q: %v", name, err)
			return nil, false
		}
		results := expr.Get(body)
		if len(results) == 0 {
			return nil, false
		}
		return results[0], true
	}
	if m, ok := body.(map[string]any); ok {
		if v, ok := m[name]; ok {
			return v, true
		}
	}
	return LookupPath(body, name)
}
