package http_mock_app

import (
	"fmt"
	"net/http"
	"strconv"

	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

func (c *MockController) CreateGroup(b *rf.Context) (int, any, error) {
	var req CreateGroupRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := validateStruct(&req); err != nil {
		return 0, nil, err
	}

	group, err := c.QueryHeaderService.CreateGroup(b.Ctx, req.EndpointID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, group, nil
}

func (c *MockController) ListGroups(b *rf.Context) (int, any, error) {
	endpointID := b.ReadQueryParameter("endpointId")
	if endpointID == "" {
		return 0, nil, fmt.Errorf("%w: endpointId is required", errBadRequest)
	}
	groups, err := c.QueryHeaderService.ListByEndpoint(b.Ctx, endpointID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, groups, nil
}

func (c *MockController) GetGroup(b *rf.Context) (int, any, error) {
	group, err := c.QueryHeaderService.GetGroup(b.Ctx, b.ReadPathParameter("id"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, group, nil
}

func (c *MockController) DeleteGroup(b *rf.Context) (int, any, error) {
	if err := c.QueryHeaderService.DeleteGroup(b.Ctx, b.ReadPathParameter("id")); err != nil {
		return 0, nil, err
	}
	return http.StatusNoContent, nil, nil
}

func (c *MockController) AddCondition(b *rf.Context) (int, any, error) {
	var req ConditionRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := validateStruct(&req); err != nil {
		return 0, nil, err
	}

	group, err := c.QueryHeaderService.AddCondition(b.Ctx, b.ReadPathParameter("id"), req.ConvertToCondition())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, group, nil
}

func (c *MockController) UpdateCondition(b *rf.Context) (int, any, error) {
	index, err := conditionIndex(b)
	if err != nil {
		return 0, nil, err
	}
	var req ConditionRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := validateStruct(&req); err != nil {
		return 0, nil, err
	}

	group, err := c.QueryHeaderService.UpdateCondition(b.Ctx, b.ReadPathParameter("id"), index, req.ConvertToCondition())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, group, nil
}

func (c *MockController) RemoveCondition(b *rf.Context) (int, any, error) {
	index, err := conditionIndex(b)
	if err != nil {
		return 0, nil, err
	}

	group, err := c.QueryHeaderService.RemoveCondition(b.Ctx, b.ReadPathParameter("id"), index)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, group, nil
}

func (c *MockController) EvaluateGroup(b *rf.Context) (int, any, error) {
	var req EvaluateGroupRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}

	matched, err := c.QueryHeaderService.EvaluateGroup(b.Ctx, b.ReadPathParameter("id"), req.ConvertToRequestContext())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]bool{"matched": matched}, nil
}

func conditionIndex(b *rf.Context) (int, error) {
	raw := b.ReadPathParameter("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid condition index %q", errBadRequest, raw)
	}
	return index, nil
}
