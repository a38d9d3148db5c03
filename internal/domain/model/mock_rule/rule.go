package model

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrRuleNotFound  = errors.New("rule not found")
	ErrGroupNotFound = errors.New("query/header rule not found")
	ErrInvalidRule   = errors.New("invalid rule")
)

var validate = validator.New()

// Rule Mock规则聚合根（核心领域对象）
type Rule struct {
	ID                string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProjectName       string             `gorm:"type:varchar(100);index:idx_project_method" json:"projectName" validate:"required,max=100"`
	Method            string             `gorm:"type:varchar(10);index:idx_project_method" json:"method" validate:"required,max=10"`
	Path              string             `gorm:"type:varchar(255)" json:"path"`
	MatchType         MatchType          `gorm:"type:varchar(20)" json:"matchType"`
	MatchValue        string             `gorm:"type:text" json:"matchValue,omitempty"`
	ParamName         string             `gorm:"type:varchar(255)" json:"paramName,omitempty"`
	ParamOperator     string             `gorm:"type:varchar(20)" json:"paramOperator,omitempty"`
	ParamValue        string             `gorm:"type:text" json:"paramValue,omitempty"`
	HeaderName        string             `gorm:"type:varchar(255)" json:"headerName,omitempty"`
	HeaderValue       string             `gorm:"type:text" json:"headerValue,omitempty"`
	StateConditions   []StateCondition   `gorm:"serializer:json" json:"stateConditions,omitempty" validate:"dive"`
	QueryHeaderRuleID string             `gorm:"type:varchar(36)" json:"queryHeaderRuleId,omitempty"`
	Delay             int                `gorm:"default:0" json:"delay" validate:"min=0"`
	Status            int                `gorm:"default:200" json:"status" validate:"min=100,max=599"`
	Headers           map[string]string  `gorm:"serializer:json" json:"headers,omitempty"`
	Body              string             `gorm:"type:mediumtext" json:"body"`
	WeightedEnabled   bool               `gorm:"default:false" json:"weightedEnabled,omitempty"`
	WeightedResponses []WeightedResponse `gorm:"serializer:json" json:"weightedResponses,omitempty" validate:"max=4,dive"`
	CreatedAt         int64              `gorm:"autoCreateTime:nano;index" json:"createdAt"`
	UpdatedAt         int64              `gorm:"autoUpdateTime:nano" json:"updatedAt"`

	// 规则入库时编译的正则，运行时只读
	compiled *regexp.Regexp
}

// WeightedResponse is one arm of a weighted-response set.
type WeightedResponse struct {
	Name    string            `json:"name,omitempty"`
	Status  int               `json:"status,omitempty" validate:"omitempty,min=100,max=599"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body"`
	Weight  float64           `json:"weight" validate:"min=0"`
}

// RulePatch 部分更新，nil 字段保持不变
type RulePatch struct {
	ProjectName       *string             `json:"projectName,omitempty"`
	Method            *string             `json:"method,omitempty"`
	Path              *string             `json:"path,omitempty"`
	MatchType         *MatchType          `json:"matchType,omitempty"`
	MatchValue        *string             `json:"matchValue,omitempty"`
	ParamName         *string             `json:"paramName,omitempty"`
	ParamOperator     *string             `json:"paramOperator,omitempty"`
	ParamValue        *string             `json:"paramValue,omitempty"`
	HeaderName        *string             `json:"headerName,omitempty"`
	HeaderValue       *string             `json:"headerValue,omitempty"`
	StateConditions   *[]StateCondition   `json:"stateConditions,omitempty"`
	QueryHeaderRuleID *string             `json:"queryHeaderRuleId,omitempty"`
	Delay             *int                `json:"delay,omitempty"`
	Status            *int                `json:"status,omitempty"`
	Headers           *map[string]string  `json:"headers,omitempty"`
	Body              *string             `json:"body,omitempty"`
	WeightedEnabled   *bool               `json:"weightedEnabled,omitempty"`
	WeightedResponses *[]WeightedResponse `json:"weightedResponses,omitempty"`
}

// Apply returns a copy of r with the patch applied. The id never changes.
func (p *RulePatch) Apply(r *Rule) *Rule {
	out := r.Clone()
	if p == nil {
		return out
	}
	setIf(&out.ProjectName, p.ProjectName)
	setIf(&out.Method, p.Method)
	setIf(&out.Path, p.Path)
	setIf(&out.MatchType, p.MatchType)
	setIf(&out.MatchValue, p.MatchValue)
	setIf(&out.ParamName, p.ParamName)
	setIf(&out.ParamOperator, p.ParamOperator)
	setIf(&out.ParamValue, p.ParamValue)
	setIf(&out.HeaderName, p.HeaderName)
	setIf(&out.HeaderValue, p.HeaderValue)
	setIf(&out.StateConditions, p.StateConditions)
	setIf(&out.QueryHeaderRuleID, p.QueryHeaderRuleID)
	setIf(&out.Delay, p.Delay)
	setIf(&out.Status, p.Status)
	setIf(&out.Headers, p.Headers)
	setIf(&out.Body, p.Body)
	setIf(&out.WeightedEnabled, p.WeightedEnabled)
	setIf(&out.WeightedResponses, p.WeightedResponses)
	out.compiled = nil
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Clone 返回规则的浅拷贝，切片与 map 重新分配
func (r *Rule) Clone() *Rule {
	out := *r
	out.StateConditions = slices.Clone(r.StateConditions)
	out.WeightedResponses = slices.Clone(r.WeightedResponses)
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	return &out
}

// Pattern returns the match value used by the path match types.
func (r *Rule) Pattern() string {
	if r.MatchValue != "" {
		return r.MatchValue
	}
	return r.Path
}

// regexSource returns the regular expression a regex match type tests with.
func (r *Rule) regexSource() string {
	switch r.MatchType {
	case MatchPathRegex:
		return r.Pattern()
	case MatchBodyRegex:
		return r.MatchValue
	case MatchHeaderRegex:
		return r.HeaderValue
	}
	return ""
}

// Compile normalizes the rule and caches its regular expression.
func (r *Rule) Compile() error {
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	r.compiled = nil
	if !r.MatchType.IsRegex() {
		return nil
	}
	re, err := regexp.Compile(r.regexSource())
	if err != nil {
		return fmt.Errorf("%w: bad %s pattern %q: %v", ErrInvalidRule, r.MatchType, r.regexSource(), err)
	}
	r.compiled = re
	return nil
}

// Regexp returns the compiled pattern, compiling lazily for rules that were not
// ingested through Compile. The second result is false when the pattern is invalid.
func (r *Rule) Regexp() (*regexp.Regexp, bool) {
	if r.compiled != nil {
		return r.compiled, true
	}
	re, err := regexp.Compile(r.regexSource())
	if err != nil {
		return nil, false
	}
	return re, true
}

// Validate checks struct tags and the match-type specific fields, then compiles the rule.
func (r *Rule) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if !r.MatchType.IsValid() {
		return fmt.Errorf("%w: unknown matchType %q", ErrInvalidRule, r.MatchType)
	}
	switch r.MatchType {
	case "", MatchPathExact, MatchPathStarts, MatchPathContains, MatchPathTemplate, MatchPathRegex:
		if r.Pattern() == "" {
			return fmt.Errorf("%w: %s requires a path", ErrInvalidRule, r.MatchType)
		}
	case MatchBodyContains, MatchBodyRegex:
		if r.MatchValue == "" {
			return fmt.Errorf("%w: %s requires matchValue", ErrInvalidRule, r.MatchType)
		}
	case MatchBodyParam:
		if r.ParamName == "" {
			return fmt.Errorf("%w: body_param requires paramName", ErrInvalidRule)
		}
		switch r.ParamOperator {
		case "", ParamOpEquals, ParamOpContains, ParamOpStartsWith, ParamOpExists:
		default:
			return fmt.Errorf("%w: unknown paramOperator %q", ErrInvalidRule, r.ParamOperator)
		}
	case MatchHeaderRegex:
		if r.HeaderName == "" {
			return fmt.Errorf("%w: header_regex requires headerName", ErrInvalidRule)
		}
	}
	for i, c := range r.StateConditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: stateConditions[%d]: %v", ErrInvalidRule, i, err)
		}
	}
	return r.Compile()
}
