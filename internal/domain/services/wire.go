package services

import (
	"go_mockapi_server/internal/domain/iface"
	"go_mockapi_server/internal/infra/repo"

	"github.com/google/wire"
)

var ServiceSet = wire.NewSet(
	repo.Reposet,
	NewTemplateEngine,
	NewRuleManageService,
	wire.Bind(new(iface.RuleService), new(*RuleManageService)),
	NewQueryHeaderService,
	wire.Bind(new(iface.QueryHeaderService), new(*QueryHeaderService)),
	NewRuleMatchService,
	wire.Bind(new(iface.RuleMatchService), new(*RuleMatchService)),
	NewResponseService,
	wire.Bind(new(iface.ResponseService), new(*ResponseService)),
	NewStateService,
	wire.Bind(new(iface.StateService), new(*StateService)),
)
