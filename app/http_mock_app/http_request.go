package http_mock_app

import (
	"context"
	"fmt"
	"net/http"

	"go_mockapi_server/internal/domain/iface"
	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
)

// requestBuilder 把 net/http 请求转换为匹配与渲染所需的上下文
type requestBuilder struct {
	state    iface.StateService
	template configs.TemplateConfig
}

func (b *requestBuilder) build(ctx context.Context, r *http.Request) (*model.RequestContext, error) {
	req := model.NewHTTPRequest(r)
	req.Environment = b.template.Environment
	req.EnvVars = b.template.ActiveVars()
	req.Globals = b.template.Globals

	if b.state != nil {
		snap, err := b.state.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load state snapshot: %w", err)
		}
		req.State = snap
	}
	return req, nil
}
