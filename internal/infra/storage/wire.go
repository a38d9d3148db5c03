package storage

import (
	configs "go_mockapi_server/internal/infra/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// NewRuleStorage 按配置选择规则存储后端
func NewRuleStorage(c *configs.MockConfig, db *gorm.DB) RuleStorageIface {
	if c.Storage.RuleBackend == configs.BackendMySQL {
		return NewMysqlRuleStorage(db)
	}
	return NewMemoryRuleStorage()
}

// NewQueryHeaderStorage 条件组与规则使用同一后端
func NewQueryHeaderStorage(c *configs.MockConfig, db *gorm.DB) QueryHeaderStorageIface {
	if c.Storage.RuleBackend == configs.BackendMySQL {
		return NewMysqlQueryHeaderStorage(db)
	}
	return NewMemoryQueryHeaderStorage()
}

// NewStateStorage 按配置选择状态存储后端
func NewStateStorage(c *configs.MockConfig, client *redis.Client) StateStorageIface {
	if c.Storage.StateBackend == configs.BackendRedis {
		return NewRedisStateStorage(client, c.RedisConfig.KeyPrefix)
	}
	return NewMemoryStateStorage()
}

// StorageSet is a Wire provider set that includes all storage-related providers
var StorageSet = wire.NewSet(
	NewMySQLClient,
	NewRedisClient,
	NewRuleStorage,
	NewQueryHeaderStorage,
	NewStateStorage,
)
