package http_mock_app

import (
	"net/http"

	model "go_mockapi_server/internal/domain/model/mock_rule"

	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

func (c *MockController) CreateRule(b *rf.Context) (int, any, error) {
	var req MockRuleRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := req.Validate(); err != nil {
		return 0, nil, err
	}

	rule, err := c.RuleManageService.CreateRule(b.Ctx, req.ConvertToRule())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, rule, nil
}

func (c *MockController) ListRules(b *rf.Context) (int, any, error) {
	rules, err := c.RuleManageService.ListRules(b.Ctx)
	if err != nil {
		return 0, nil, err
	}
	if project := b.ReadQueryParameter("project"); project != "" {
		filtered := make([]*model.Rule, 0, len(rules))
		for _, r := range rules {
			if r.ProjectName == project {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}
	return http.StatusOK, rules, nil
}

func (c *MockController) GetRule(b *rf.Context) (int, any, error) {
	rule, err := c.RuleManageService.GetRule(b.Ctx, b.ReadPathParameter("id"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, rule, nil
}

func (c *MockController) ReplaceRule(b *rf.Context) (int, any, error) {
	var req MockRuleRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := req.Validate(); err != nil {
		return 0, nil, err
	}

	rule, err := c.RuleManageService.ReplaceRule(b.Ctx, b.ReadPathParameter("id"), req.ConvertToRule())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, rule, nil
}

// PatchRule 请求体中的 id 字段不参与解码
func (c *MockController) PatchRule(b *rf.Context) (int, any, error) {
	var patch model.RulePatch
	if err := readEntity(b, &patch); err != nil {
		return 0, nil, err
	}

	rule, err := c.RuleManageService.PatchRule(b.Ctx, b.ReadPathParameter("id"), &patch)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, rule, nil
}

func (c *MockController) DeleteRule(b *rf.Context) (int, any, error) {
	if err := c.RuleManageService.DeleteRule(b.Ctx, b.ReadPathParameter("id")); err != nil {
		return 0, nil, err
	}
	return http.StatusNoContent, nil, nil
}
