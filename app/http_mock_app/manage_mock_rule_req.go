package http_mock_app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	model "go_mockapi_server/internal/domain/model/mock_rule"

	"github.com/go-playground/validator/v10"
)

var errBadRequest = errors.New("bad request")

var validate = validator.New()

// MockRuleRequest 创建或整体替换规则的请求体
type MockRuleRequest struct {
	ProjectName       string                `json:"projectName" validate:"required,max=100"`
	Method            string                `json:"method" validate:"required,max=10,alpha"`
	Path              string                `json:"path" validate:"max=255"`
	MatchType         string                `json:"matchType" validate:"omitempty,oneof=path_exact path_starts path_contains path_template path_regex body_contains body_param body_regex header_regex"`
	MatchValue        string                `json:"matchValue"`
	ParamName         string                `json:"paramName"`
	ParamOperator     string                `json:"paramOperator" validate:"omitempty,oneof=equals contains starts_with exists"`
	ParamValue        string                `json:"paramValue"`
	HeaderName        string                `json:"headerName"`
	HeaderValue       string                `json:"headerValue"`
	StateConditions   []StateConditionDTO   `json:"stateConditions" validate:"dive"`
	QueryHeaderRuleID string                `json:"queryHeaderRuleId"`
	Delay             int                   `json:"delay" validate:"min=0,max=300000"`
	Status            int                   `json:"status" validate:"omitempty,min=100,max=599"`
	Headers           map[string]string     `json:"headers"`
	Body              string                `json:"body"`
	WeightedEnabled   bool                  `json:"weightedEnabled"`
	WeightedResponses []WeightedResponseDTO `json:"weightedResponses" validate:"max=4,dive"`
}

type StateConditionDTO struct {
	Variable string `json:"variable" validate:"required"`
	Type     string `json:"type" validate:"required,oneof='Data Store' List Counter"`
	Operator string `json:"operator" validate:"required"`
	Value    string `json:"value"`
}

type WeightedResponseDTO struct {
	Name    string            `json:"name"`
	Status  int               `json:"status" validate:"omitempty,min=100,max=599"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
	Weight  float64           `json:"weight" validate:"min=0"`
}

// Validate performs validation on MockRuleRequest
func (req *MockRuleRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: invalid request: %v", errBadRequest, err)
	}
	if req.WeightedEnabled && len(req.WeightedResponses) == 0 {
		return fmt.Errorf("%w: weightedEnabled requires weightedResponses", errBadRequest)
	}
	return nil
}

// ConvertToRule converts MockRuleRequest DTO to Rule model
func (req *MockRuleRequest) ConvertToRule() *model.Rule {
	status := req.Status
	if status == 0 {
		status = http.StatusOK
	}

	rule := &model.Rule{
		ProjectName:       req.ProjectName,
		Method:            req.Method,
		Path:              req.Path,
		MatchType:         model.MatchType(req.MatchType),
		MatchValue:        req.MatchValue,
		ParamName:         req.ParamName,
		ParamOperator:     req.ParamOperator,
		ParamValue:        req.ParamValue,
		HeaderName:        req.HeaderName,
		HeaderValue:       req.HeaderValue,
		QueryHeaderRuleID: req.QueryHeaderRuleID,
		Delay:             req.Delay,
		Status:            status,
		Headers:           req.Headers,
		Body:              req.Body,
		WeightedEnabled:   req.WeightedEnabled,
	}
	if rule.MatchType == "" {
		rule.MatchType = model.MatchPathExact
	}

	for _, c := range req.StateConditions {
		rule.StateConditions = append(rule.StateConditions, model.StateCondition{
			Variable: c.Variable,
			Type:     model.StateKind(c.Type),
			Operator: c.Operator,
			Value:    c.Value,
		})
	}
	for _, w := range req.WeightedResponses {
		rule.WeightedResponses = append(rule.WeightedResponses, model.WeightedResponse{
			Name:    w.Name,
			Status:  w.Status,
			Headers: w.Headers,
			Body:    w.Body,
			Weight:  w.Weight,
		})
	}
	return rule
}

// CreateGroupRequest 创建条件组
type CreateGroupRequest struct {
	EndpointID string `json:"endpointId" validate:"required"`
}

// ConditionRequest 条件组中的单个条件
type ConditionRequest struct {
	Type     string `json:"type" validate:"required,oneof=query header"`
	Name     string `json:"name" validate:"required"`
	Operator string `json:"operator" validate:"required,oneof=equals not_equals contains regex"`
	Value    string `json:"value"`
}

func (req *ConditionRequest) ConvertToCondition() model.QueryHeaderCondition {
	return model.QueryHeaderCondition{
		Type:     model.ConditionSource(req.Type),
		Name:     req.Name,
		Operator: req.Operator,
		Value:    req.Value,
	}
}

// EvaluateGroupRequest 用给定的 query 与 header 试算条件组
type EvaluateGroupRequest struct {
	Query   map[string]string `json:"query"`
	Headers map[string]string `json:"headers"`
}

// ConvertToRequestContext header 名统一小写
func (req *EvaluateGroupRequest) ConvertToRequestContext() *model.RequestContext {
	rc := &model.RequestContext{
		Query:   map[string]string{},
		Headers: map[string]string{},
	}
	for k, v := range req.Query {
		rc.Query[k] = v
	}
	for k, v := range req.Headers {
		rc.Headers[strings.ToLower(k)] = v
	}
	return rc
}

type TemplateValidateRequest struct {
	Template string `json:"template"`
}

type StateValueRequest struct {
	Value any `json:"value"`
}

type CounterIncrementRequest struct {
	Delta *float64 `json:"delta"`
}

// validateStruct 校验通用请求体
func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: invalid request: %v", errBadRequest, err)
	}
	return nil
}
