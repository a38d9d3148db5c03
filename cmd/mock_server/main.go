package main

import (
	"os"

	"go_mockapi_server/app/http_mock_app"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/utils"

	"github.com/go-chassis/go-chassis/v2"
)

func main() {
	cfg, err := configs.LoadMockConfig()
	if err != nil {
		utils.GetLogger().Fatalf("load mock config err: %v", err)
	}
	logger, err := utils.InitLogger(cfg.LogConfig.Options())
	if err != nil {
		logger.Fatalf("init logger err: %v", err)
	}

	controller, cleanup, err := http_mock_app.InitializeMockController(cfg)
	if err != nil {
		logger.Fatalf("init mock controller err: %v", err)
	}

	// chassis 从 CHASSIS_HOME/conf 读取监听地址
	if os.Getenv("CHASSIS_HOME") == "" {
		if wd, err := os.Getwd(); err == nil {
			_ = os.Setenv("CHASSIS_HOME", wd)
		}
	}

	chassis.RegisterSchema("rest", controller)
	if err := chassis.Init(); err != nil {
		cleanup()
		logger.Fatalf("chassis init err: %v", err)
	}
	logger.Infof("mock server started, rule backend=%s state backend=%s",
		cfg.Storage.RuleBackend, cfg.Storage.StateBackend)
	if err := chassis.Run(); err != nil {
		cleanup()
		logger.Fatalf("chassis run err: %v", err)
	}
	cleanup()
}
