package http_mock_app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/utils"
)

// 请求处理结果，用于指标标签
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// MockHandler 处理所有非管理接口的请求：匹配规则并返回合成的响应
type MockHandler struct {
	matcher  iface.RuleMatchService
	response iface.ResponseService
	builder  requestBuilder

	// observe 在每个请求结束时调用，可为 nil
	observe func(req *model.RequestContext, result string)
}

var _ http.Handler = (*MockHandler)(nil)

func NewMockHandler(matcher iface.RuleMatchService, response iface.ResponseService, state iface.StateService, c *configs.MockConfig) *MockHandler {
	return &MockHandler{
		matcher:  matcher,
		response: response,
		builder:  requestBuilder{state: state, template: c.TemplateConfig},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *MockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := utils.GetLogger()
	ctx := r.Context()

	defer func() {
		if err := recover(); err != nil {
			logger.WithFields(map[string]interface{}{
				"panic": err,
				"stack": string(debug.Stack()),
			}).Error("handle mock request panic")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
		}
	}()

	req, err := h.builder.build(ctx, r)
	if err != nil {
		logger.Errorf("build request context err: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	match, err := h.matcher.MatchRule(ctx, req)
	if err != nil {
		logger.Errorf("match rule err: %v", err)
		h.done(req, resultError)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	if match == nil {
		h.done(req, resultMiss)
		writeJSON(w, http.StatusNotFound, errorBody{
			Error: fmt.Sprintf("No mock endpoint found for %s %s", req.Method, req.DecodedPath()),
		})
		return
	}

	resp, err := h.response.Synthesize(ctx, match, req)
	if err != nil {
		h.done(req, resultError)
		if ctx.Err() != nil {
			logger.Infof("client left before rule %s responded: %v", match.Rule.ID, err)
			return
		}
		logger.Errorf("synthesize response for rule %s err: %v", match.Rule.ID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	h.done(req, resultHit)
	for k, v := range resp.GetHeaders() {
		w.Header().Set(k, v)
	}
	body := resp.GetBody()
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(resp.GetStatus())
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (h *MockHandler) done(req *model.RequestContext, result string) {
	if h.observe != nil {
		h.observe(req, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
