package services

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	"go_mockapi_server/internal/domain/template"
	configs "go_mockapi_server/internal/infra/config"
)

// ResponseService 响应合成：选择变体、延迟、渲染、规整
type ResponseService struct {
	engine *template.Engine

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ iface.ResponseService = (*ResponseService)(nil)

// NewTemplateEngine 按模板配置的时区创建引擎
func NewTemplateEngine(c *configs.MockConfig) (*template.Engine, error) {
	loc, err := c.TemplateConfig.Location()
	if err != nil {
		return nil, err
	}
	return template.New(template.WithLocation(loc)), nil
}

func NewResponseService(engine *template.Engine) *ResponseService {
	return &ResponseService{engine: engine}
}

// WithRand 固定加权抽取的随机源，用于测试
func (s *ResponseService) WithRand(rng *rand.Rand) *ResponseService {
	s.rng = rng
	return s
}

func (s *ResponseService) selectResponse(rule *model.Rule) model.ResponseSpec {
	if s.rng == nil {
		return rule.SelectResponse(nil)
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rule.SelectResponse(s.rng)
}

func (s *ResponseService) Synthesize(ctx context.Context, match *model.MatchResult, req *model.RequestContext) (model.ResponseInfo, error) {
	rule := match.Rule
	chosen := s.selectResponse(rule)
	delay := time.Duration(rule.Delay) * time.Millisecond

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}

	rendered := s.engine.Render(chosen.Body, req.TemplateData(match.PathParams))

	headers := make(map[string]string, len(chosen.Headers)+1)
	for k, v := range chosen.Headers {
		headers[k] = v
	}
	body, isJSON := model.NormalizeJSONBody(rendered)
	if isJSON && !hasHeader(headers, "Content-Type") {
		headers["Content-Type"] = "application/json"
	}

	status := chosen.Status
	if status == 0 {
		status = http.StatusOK
	}
	return model.NewBaseResponse(status, headers, body, delay), nil
}

// wait 等待 d，ctx 取消时提前返回
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func (s *ResponseService) ValidateTemplate(src string) []error {
	return template.Validate(src)
}
