package model

// MatchType selects the algorithm used to test a request against a rule
type MatchType string

// 匹配类型枚举
const (
	MatchPathExact    MatchType = "path_exact"
	MatchPathStarts   MatchType = "path_starts"
	MatchPathContains MatchType = "path_contains"
	MatchPathTemplate MatchType = "path_template"
	MatchPathRegex    MatchType = "path_regex"
	MatchBodyContains MatchType = "body_contains"
	MatchBodyParam    MatchType = "body_param"
	MatchBodyRegex    MatchType = "body_regex"
	MatchHeaderRegex  MatchType = "header_regex"
)

func (t MatchType) IsValid() bool {
	switch t {
	case "", MatchPathExact, MatchPathStarts, MatchPathContains, MatchPathTemplate, MatchPathRegex,
		MatchBodyContains, MatchBodyParam, MatchBodyRegex, MatchHeaderRegex:
		return true
	default:
		return false
	}
}

// IsRegex reports whether the match value of this type is a regular expression.
func (t MatchType) IsRegex() bool {
	return t == MatchPathRegex || t == MatchBodyRegex || t == MatchHeaderRegex
}

func (t MatchType) String() string {
	return string(t)
}

// body_param 操作符
const (
	ParamOpEquals     = "equals"
	ParamOpContains   = "contains"
	ParamOpStartsWith = "starts_with"
	ParamOpExists     = "exists"
)

// StateKind is the kind of state variable a StateCondition reads.
type StateKind string

const (
	StateKindDataStore StateKind = "Data Store"
	StateKindList      StateKind = "List"
	StateKindCounter   StateKind = "Counter"
)

func (k StateKind) IsValid() bool {
	switch k {
	case StateKindDataStore, StateKindList, StateKindCounter:
		return true
	default:
		return false
	}
}

// 状态条件操作符
const (
	StateOpEquals       = "equals"
	StateOpNotEquals    = "not_equals"
	StateOpContains     = "contains"
	StateOpNotContains  = "not_contains"
	StateOpExists       = "exists"
	StateOpNotExists    = "not_exists"
	StateOpLengthEquals = "length_equals"
	StateOpLengthGT     = "length_gt"
	StateOpLengthLT     = "length_lt"
	StateOpIsEmpty      = "is_empty"
	StateOpIsNotEmpty   = "is_not_empty"
	StateOpGT           = "gt"
	StateOpLT           = "lt"
	StateOpGTE          = "gte"
	StateOpLTE          = "lte"
)

// stateOperators lists the operators each state kind accepts.
var stateOperators = map[StateKind][]string{
	StateKindDataStore: {StateOpEquals, StateOpNotEquals, StateOpContains, StateOpNotContains, StateOpExists, StateOpNotExists},
	StateKindList: {StateOpContains, StateOpNotContains, StateOpLengthEquals, StateOpLengthGT, StateOpLengthLT,
		StateOpIsEmpty, StateOpIsNotEmpty, StateOpExists, StateOpNotExists},
	StateKindCounter: {StateOpEquals, StateOpNotEquals, StateOpGT, StateOpLT, StateOpGTE, StateOpLTE, StateOpExists, StateOpNotExists},
}

// ConditionSource is where a query/header condition reads its value from.
type ConditionSource string

const (
	ConditionSourceQuery  ConditionSource = "query"
	ConditionSourceHeader ConditionSource = "header"
)

// query/header 条件操作符
const (
	OpEquals    = "equals"
	OpNotEquals = "not_equals"
	OpContains  = "contains"
	OpRegex     = "regex"
)

// MaxWeightedResponses is the number of response variants a rule may carry.
const MaxWeightedResponses = 4
