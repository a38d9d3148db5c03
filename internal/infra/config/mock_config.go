package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 存储后端
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

// MockConfig 服务配置
type MockConfig struct {
	Storage              StorageConfig        `yaml:"storage"`
	DatabaseConfig       DatabaseConfig       `yaml:"database"`
	DatabaseOptionConfig DatabaseOptionConfig `yaml:"databaseConfig"`
	RedisConfig          RedisConfig          `yaml:"redis"`
	RuleRepoConfig       RuleRepoConfig       `yaml:"ruleRepo"`
	LogConfig            LogConfig            `yaml:"log"`
	TemplateConfig       TemplateConfig       `yaml:"template"`
}

// StorageConfig 选择规则与状态的存储后端
type StorageConfig struct {
	RuleBackend  string `json:"ruleBackend" yaml:"ruleBackend"`
	StateBackend string `json:"stateBackend" yaml:"stateBackend"`
	AutoMigrate  bool   `json:"autoMigrate" yaml:"autoMigrate"`
}

// RuleRepoConfig 封装 repo 层的重试与协程池参数
type RuleRepoConfig struct {
	StorageRetryCount  int           `json:"storageRetryCount" yaml:"storageRetryCount"`
	StorageRetryDelay  time.Duration `json:"storageRetryDelay" yaml:"storageRetryDelay"`
	SnapshotRetryCount int           `json:"snapshotRetryCount" yaml:"snapshotRetryCount"`
	SnapshotRetryDelay time.Duration `json:"snapshotRetryDelay" yaml:"snapshotRetryDelay"`
	// SnapshotLoadTimeout 单次快照加载的上限，与发起请求的生命周期无关
	SnapshotLoadTimeout time.Duration `json:"snapshotLoadTimeout" yaml:"snapshotLoadTimeout"`
	WarmupPoolSize      int           `json:"warmupPoolSize" yaml:"warmupPoolSize"`
}

// LoadMockConfig 加载配置；未显式指定且默认文件不存在时使用默认值
func LoadMockConfig() (*MockConfig, error) {
	path, explicit := getConfigPath()
	config, err := LoadMockConfigFromFile(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		config = &MockConfig{}
		config.applyDefaults()
		return config, nil
	}
	return config, err
}

// LoadMockConfigFromFile 读取并解析指定路径的配置
func LoadMockConfigFromFile(path string) (*MockConfig, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseMockConfig(configFile)
}

// ParseMockConfig 解析 YAML，补默认值后校验
func ParseMockConfig(data []byte) (*MockConfig, error) {
	config := &MockConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// getConfigPath 获取配置文件路径，第二个返回值表示是否由环境变量显式指定
func getConfigPath() (string, bool) {
	// 优先使用环境变量
	if path := os.Getenv("MOCK_CONFIG_PATH"); path != "" {
		return path, true
	}

	env := os.Getenv("MOCK_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("conf/mock.%s.yaml", env), false
}

func (c *MockConfig) applyDefaults() {
	if c.Storage.RuleBackend == "" {
		c.Storage.RuleBackend = BackendMemory
	}
	if c.Storage.StateBackend == "" {
		c.Storage.StateBackend = BackendMemory
	}

	repo := &c.RuleRepoConfig
	if repo.StorageRetryCount <= 0 {
		repo.StorageRetryCount = 3
	}
	if repo.StorageRetryDelay <= 0 {
		repo.StorageRetryDelay = 100 * time.Millisecond
	}
	if repo.SnapshotRetryCount <= 0 {
		repo.SnapshotRetryCount = 3
	}
	if repo.SnapshotRetryDelay <= 0 {
		repo.SnapshotRetryDelay = 50 * time.Millisecond
	}
	if repo.SnapshotLoadTimeout <= 0 {
		repo.SnapshotLoadTimeout = 5 * time.Second
	}
	if repo.WarmupPoolSize <= 0 {
		repo.WarmupPoolSize = 4
	}

	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
}

// validate 验证配置
func (c *MockConfig) validate() error {
	switch c.Storage.RuleBackend {
	case BackendMemory:
	case BackendMySQL:
		if err := c.validateDatabase(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown rule backend %q", c.Storage.RuleBackend)
	}

	switch c.Storage.StateBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisConfig.Host == "" {
			return fmt.Errorf("redis host is required")
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.Storage.StateBackend)
	}

	if c.TemplateConfig.Timezone != "" {
		if _, err := c.TemplateConfig.Location(); err != nil {
			return err
		}
	}
	if env := c.TemplateConfig.Environment; env != "" && len(c.TemplateConfig.Environments) > 0 {
		if _, ok := c.TemplateConfig.Environments[env]; !ok {
			return fmt.Errorf("active environment %q is not defined", env)
		}
	}
	return nil
}

func (c *MockConfig) validateDatabase() error {
	// 验证数据库配置
	db := c.DatabaseConfig
	if db.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if db.Port == 0 {
		return fmt.Errorf("database port is required")
	}
	if db.Username == "" {
		return fmt.Errorf("database username is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// 验证数据库连接池配置
	dbConfig := c.DatabaseOptionConfig
	if dbConfig.MaxIdleConns <= 0 {
		return fmt.Errorf("maxIdleConns must be positive")
	}
	if dbConfig.MaxOpenConns <= 0 {
		return fmt.Errorf("maxOpenConns must be positive")
	}
	if dbConfig.MaxOpenConns < dbConfig.MaxIdleConns {
		return fmt.Errorf("maxOpenConns must be greater than or equal to maxIdleConns")
	}
	return nil
}
