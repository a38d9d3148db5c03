package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMockConfigDefaults(t *testing.T) {
	config, err := ParseMockConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, config.Storage.RuleBackend)
	assert.Equal(t, BackendMemory, config.Storage.StateBackend)
	assert.Equal(t, 3, config.RuleRepoConfig.StorageRetryCount)
	assert.Equal(t, 100*time.Millisecond, config.RuleRepoConfig.StorageRetryDelay)
	assert.Equal(t, 4, config.RuleRepoConfig.WarmupPoolSize)
	assert.Equal(t, 5*time.Second, config.RuleRepoConfig.SnapshotLoadTimeout)
	assert.Equal(t, "info", config.LogConfig.Level)
	assert.Equal(t, 6379, config.RedisConfig.Port)
}

func TestParseMockConfig(t *testing.T) {
	data := `
storage:
  ruleBackend: mysql
  stateBackend: redis
database:
  host: 127.0.0.1
  port: 3306
  username: root
  password: secret
  database: mock
  timeout: 3s
databaseConfig:
  maxIdleConns: 5
  maxOpenConns: 10
  connMaxLifetime: 1h
redis:
  host: 127.0.0.1
  port: 6380
  db: 2
ruleRepo:
  storageRetryCount: 5
  storageRetryDelay: 20ms
template:
  environment: dev
  environments:
    dev:
      baseUrl: http://localhost:3000
      retries: 2
  globals:
    appName: demo
  timezone: UTC
`
	config, err := ParseMockConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "root:secret@tcp(127.0.0.1:3306)/mock?charset=utf8mb4&parseTime=True&loc=UTC&timeout=3s", config.DatabaseConfig.GetDSN())
	assert.Equal(t, time.Hour, config.DatabaseOptionConfig.ConnMaxLifetime)
	assert.Equal(t, "127.0.0.1:6380", config.RedisConfig.Addr())
	assert.Equal(t, 2, config.RedisConfig.Database)
	assert.Equal(t, 5, config.RuleRepoConfig.StorageRetryCount)
	assert.Equal(t, 20*time.Millisecond, config.RuleRepoConfig.StorageRetryDelay)

	vars := config.TemplateConfig.ActiveVars()
	assert.Equal(t, "http://localhost:3000", vars["baseUrl"])
	assert.Equal(t, 2, vars["retries"])
	assert.Equal(t, "demo", config.TemplateConfig.Globals["appName"])

	loc, err := config.TemplateConfig.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseMockConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown rule backend", "storage: {ruleBackend: sqlite}"},
		{"unknown state backend", "storage: {stateBackend: etcd}"},
		{"mysql without host", "storage: {ruleBackend: mysql}"},
		{"mysql bad pool", `
storage: {ruleBackend: mysql}
database: {host: db, port: 3306, username: u, database: d}
databaseConfig: {maxIdleConns: 10, maxOpenConns: 5}`},
		{"redis without host", "storage: {stateBackend: redis}"},
		{"bad timezone", "template: {timezone: Mars/Olympus}"},
		{"undefined environment", "template: {environment: prod, environments: {dev: {a: 1}}}"},
		{"bad yaml", "storage: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMockConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadMockConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: {level: debug}"), 0644))

	t.Setenv("MOCK_CONFIG_PATH", path)
	config, err := LoadMockConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", config.LogConfig.Level)

	t.Setenv("MOCK_CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	_, err = LoadMockConfig()
	assert.Error(t, err)
}

func TestLoadMockConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("MOCK_CONFIG_PATH", "")
	t.Setenv("MOCK_ENV", "no-such-env")

	config, err := LoadMockConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, config.Storage.RuleBackend)
}
