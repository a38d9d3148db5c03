//go:build wireinject
// +build wireinject

package http_mock_app

import (
	"go_mockapi_server/internal/domain/services"
	configs "go_mockapi_server/internal/infra/config"

	"github.com/google/wire"
)

// InitializeMockController 组装 controller 及其全部依赖
func InitializeMockController(c *configs.MockConfig) (*MockController, func(), error) {
	wire.Build(services.ServiceSet, NewMockHandler, NewMockController)
	return nil, nil, nil
}
