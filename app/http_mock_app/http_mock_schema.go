package http_mock_app

import (
	"errors"
	"net/http"
	"runtime/debug"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/utils"

	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

const adminPrefix = "/mock"

type MockController struct {
	RuleManageService  iface.RuleService
	QueryHeaderService iface.QueryHeaderService
	ResponseService    iface.ResponseService
	StateService       iface.StateService
	Handler            *MockHandler
}

func NewMockController(ruleManageService iface.RuleService, queryHeaderService iface.QueryHeaderService,
	responseService iface.ResponseService, stateService iface.StateService, handler *MockHandler) *MockController {
	handler.observe = func(req *model.RequestContext, result string) {
		recordMockRequest(req.Project, req.Method, result)
	}
	return &MockController{
		RuleManageService:  ruleManageService,
		QueryHeaderService: queryHeaderService,
		ResponseService:    responseService,
		StateService:       stateService,
		Handler:            handler,
	}
}

// admin 包装管理接口：记录指标、恢复 panic、统一错误输出
func (c *MockController) admin(name string, fn func(b *rf.Context) (int, any, error)) func(*rf.Context) {
	return func(b *rf.Context) {
		logger := utils.GetLogger()
		logger.Debugf("%s begin", name)
		recordAdminRequest(b.ReadRequest().Method, name)

		defer func() {
			if err := recover(); err != nil {
				logger.WithFields(map[string]interface{}{
					"panic": err,
					"stack": string(debug.Stack()),
				}).Error("handle request panic")
				b.WriteHeaderAndJSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"}, "application/json")
			}
		}()

		status, out, err := fn(b)
		if err != nil {
			status = errorStatus(err)
			if status == http.StatusInternalServerError {
				logger.Errorf("%s err: %v", name, err)
			} else {
				logger.Infof("%s rejected: %v", name, err)
			}
			b.WriteHeaderAndJSON(status, errorBody{Error: err.Error()}, "application/json")
			return
		}
		if status == http.StatusNoContent {
			b.WriteHeader(status)
			return
		}
		b.WriteHeaderAndJSON(status, out, "application/json")
	}
}

// errorStatus 领域错误映射为 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrRuleNotFound), errors.Is(err, model.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, model.ErrInvalidRule), errors.Is(err, model.ErrConditionIndex):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// readEntity 解码并校验请求体
func readEntity(b *rf.Context, v any) error {
	if err := b.ReadEntity(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

// ServeMock 非管理路径交给 MockHandler
func (c *MockController) ServeMock(b *rf.Context) {
	c.Handler.ServeHTTP(b.ReadResponseWriter(), b.ReadRequest())
}

var mockMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

func (c *MockController) URLPatterns() []rf.Route {
	ok := []*rf.Returns{{Code: http.StatusOK}}
	routes := []rf.Route{
		{Method: http.MethodPost, Path: adminPrefix + "/rules", ResourceFunc: c.admin("CreateRule", c.CreateRule),
			Returns: []*rf.Returns{{Code: http.StatusCreated}}},
		{Method: http.MethodGet, Path: adminPrefix + "/rules", ResourceFunc: c.admin("ListRules", c.ListRules), Returns: ok},
		{Method: http.MethodGet, Path: adminPrefix + "/rules/{id}", ResourceFunc: c.admin("GetRule", c.GetRule), Returns: ok},
		{Method: http.MethodPut, Path: adminPrefix + "/rules/{id}", ResourceFunc: c.admin("ReplaceRule", c.ReplaceRule), Returns: ok},
		{Method: http.MethodPatch, Path: adminPrefix + "/rules/{id}", ResourceFunc: c.admin("PatchRule", c.PatchRule), Returns: ok},
		{Method: http.MethodDelete, Path: adminPrefix + "/rules/{id}", ResourceFunc: c.admin("DeleteRule", c.DeleteRule),
			Returns: []*rf.Returns{{Code: http.StatusNoContent}}},

		{Method: http.MethodPost, Path: adminPrefix + "/query_header_rules", ResourceFunc: c.admin("CreateGroup", c.CreateGroup),
			Returns: []*rf.Returns{{Code: http.StatusCreated}}},
		{Method: http.MethodGet, Path: adminPrefix + "/query_header_rules", ResourceFunc: c.admin("ListGroups", c.ListGroups), Returns: ok},
		{Method: http.MethodGet, Path: adminPrefix + "/query_header_rules/{id}", ResourceFunc: c.admin("GetGroup", c.GetGroup), Returns: ok},
		{Method: http.MethodDelete, Path: adminPrefix + "/query_header_rules/{id}", ResourceFunc: c.admin("DeleteGroup", c.DeleteGroup),
			Returns: []*rf.Returns{{Code: http.StatusNoContent}}},
		{Method: http.MethodPost, Path: adminPrefix + "/query_header_rules/{id}/conditions", ResourceFunc: c.admin("AddCondition", c.AddCondition), Returns: ok},
		{Method: http.MethodPut, Path: adminPrefix + "/query_header_rules/{id}/conditions/{index}", ResourceFunc: c.admin("UpdateCondition", c.UpdateCondition), Returns: ok},
		{Method: http.MethodDelete, Path: adminPrefix + "/query_header_rules/{id}/conditions/{index}", ResourceFunc: c.admin("RemoveCondition", c.RemoveCondition), Returns: ok},
		{Method: http.MethodPost, Path: adminPrefix + "/query_header_rules/{id}/evaluate", ResourceFunc: c.admin("EvaluateGroup", c.EvaluateGroup), Returns: ok},

		{Method: http.MethodPost, Path: adminPrefix + "/template/validate", ResourceFunc: c.admin("ValidateTemplate", c.ValidateTemplate), Returns: ok},

		{Method: http.MethodGet, Path: adminPrefix + "/state", ResourceFunc: c.admin("GetState", c.GetState), Returns: ok},
		{Method: http.MethodDelete, Path: adminPrefix + "/state", ResourceFunc: c.admin("ResetState", c.ResetState),
			Returns: []*rf.Returns{{Code: http.StatusNoContent}}},
		{Method: http.MethodPut, Path: adminPrefix + "/state/data/{name}", ResourceFunc: c.admin("SetStateData", c.SetStateData), Returns: ok},
		{Method: http.MethodPost, Path: adminPrefix + "/state/lists/{name}", ResourceFunc: c.admin("AppendStateList", c.AppendStateList), Returns: ok},
		{Method: http.MethodPost, Path: adminPrefix + "/state/counters/{name}/increment", ResourceFunc: c.admin("IncrementCounter", c.IncrementCounter), Returns: ok},
	}

	// 管理接口的字面量路径优先于通配路径
	for _, method := range mockMethods {
		routes = append(routes,
			rf.Route{Method: method, Path: "/{project}", ResourceFunc: c.ServeMock},
			rf.Route{Method: method, Path: "/{project}/{subpath:*}", ResourceFunc: c.ServeMock},
		)
	}
	return routes
}
