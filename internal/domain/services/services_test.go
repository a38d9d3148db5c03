package services

import (
	"net/http/httptest"
	"strings"
	"testing"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/internal/infra/repo"
	"go_mockapi_server/internal/infra/storage"
)

type testServices struct {
	ruleRepo  repo.RuleRepositoryIface
	groupRepo repo.QueryHeaderRepositoryIface
	manage    *RuleManageService
	groups    *QueryHeaderService
	matcher   *RuleMatchService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	cfg := &configs.RuleRepoConfig{StorageRetryCount: 1, SnapshotRetryCount: 1}
	ruleRepo := repo.NewRuleRepoImpl(storage.NewMemoryRuleStorage(), cfg, nil)
	groupRepo := repo.NewQueryHeaderRepoImpl(storage.NewMemoryQueryHeaderStorage(), cfg, nil)
	return &testServices{
		ruleRepo:  ruleRepo,
		groupRepo: groupRepo,
		manage:    NewRuleManageService(ruleRepo),
		groups:    NewQueryHeaderService(groupRepo, ruleRepo),
		matcher:   NewRuleMatchService(ruleRepo, groupRepo),
	}
}

func newRequest(method, target, body string, headers map[string]string) *model.RequestContext {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return model.NewHTTPRequest(r)
}

func baseRule(path string) *model.Rule {
	return &model.Rule{
		ProjectName: "proj",
		Method:      "GET",
		Path:        path,
		MatchType:   model.MatchPathExact,
		Status:      200,
		Body:        `{"ok":true}`,
	}
}
