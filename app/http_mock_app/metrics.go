package http_mock_app

import (
	"sync"

	"go_mockapi_server/utils"

	"github.com/go-chassis/go-chassis/v2/pkg/metrics"
)

const (
	adminRequestCounter = "mock_admin_request_counter"
	mockRequestCounter  = "mock_request_counter"
)

// 指标注册表在 chassis.Init 之后才可用，因此在首次使用时创建
var metricsOnce sync.Once

func initMetrics() {
	metricsOnce.Do(func() {
		counters := []metrics.CounterOpts{
			{Name: adminRequestCounter, Help: "admin api requests", Labels: []string{"method", "endpoint"}},
			{Name: mockRequestCounter, Help: "mock requests by project and result", Labels: []string{"project", "method", "result"}},
		}
		for _, opts := range counters {
			if err := metrics.CreateCounter(opts); err != nil {
				utils.GetLogger().Warnf("create counter %s err: %v", opts.Name, err)
			}
		}
	})
}

func recordAdminRequest(method, endpoint string) {
	initMetrics()
	if err := metrics.CounterAdd(adminRequestCounter, 1, map[string]string{
		"method":   method,
		"endpoint": endpoint,
	}); err != nil {
		utils.GetLogger().Debugf("record admin metric err: %v", err)
	}
}

func recordMockRequest(project, method, result string) {
	initMetrics()
	if err := metrics.CounterAdd(mockRequestCounter, 1, map[string]string{
		"project": project,
		"method":  method,
		"result":  result,
	}); err != nil {
		utils.GetLogger().Debugf("record mock metric err: %v", err)
	}
}
