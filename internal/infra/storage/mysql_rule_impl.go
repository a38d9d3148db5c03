package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	model "go_mockapi_server/internal/domain/model/mock_rule"
	configs "go_mockapi_server/internal/infra/config"
	"go_mockapi_server/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MysqlRuleStorage struct {
	mysqlClient *gorm.DB
}

// NewMySQLClient 仅在规则后端为 mysql 时建立连接，否则返回 nil
func NewMySQLClient(c *configs.MockConfig) (*gorm.DB, func(), error) {
	if c.Storage.RuleBackend != configs.BackendMySQL {
		return nil, func() {}, nil
	}

	opts := c.DatabaseOptionConfig
	db, err := gorm.Open(mysql.Open(c.DatabaseConfig.GetDSN()), &gorm.Config{
		Logger: logger.New(utils.GetLogger(), logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  gormLogLevel(opts.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if c.Storage.AutoMigrate {
		if err := db.AutoMigrate(&model.Rule{}, &model.QueryHeaderRule{}); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate tables: %w", err)
		}
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			utils.GetLogger().Errorf("close mysql connection err: %v", err)
		}
	}
	return db, cleanup, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func NewMysqlRuleStorage(mysqlClient *gorm.DB) *MysqlRuleStorage {
	return &MysqlRuleStorage{mysqlClient: mysqlClient}
}

var _ RuleStorageIface = (*MysqlRuleStorage)(nil)

// ListRules 按创建时间返回全部规则，即插入顺序
func (s *MysqlRuleStorage) ListRules(ctx context.Context) ([]*model.Rule, error) {
	var rules []*model.Rule
	if err := s.mysqlClient.WithContext(ctx).Order("created_at, id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules from mysql: %w", err)
	}
	return rules, nil
}

func (s *MysqlRuleStorage) GetRule(ctx context.Context, ruleID string) (*model.Rule, error) {
	rule := &model.Rule{}
	if err := s.mysqlClient.WithContext(ctx).First(rule, "id = ?", ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrRuleNotFound, ruleID)
		}
		return nil, fmt.Errorf("failed to get rule from mysql: %w", err)
	}
	return rule, nil
}

func (s *MysqlRuleStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	tx := s.mysqlClient.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Create(rule).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Error 1062") {
			return fmt.Errorf("rule %s already exists: %w", rule.ID, err)
		}
		return fmt.Errorf("failed to save rule to mysql: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateRule 整行覆盖，created_at 保持不变
func (s *MysqlRuleStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	result := s.mysqlClient.WithContext(ctx).Model(&model.Rule{}).
		Where("id = ?", rule.ID).
		Select("*").Omit("id", "created_at").
		Updates(rule)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule in mysql: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", model.ErrRuleNotFound, rule.ID)
	}
	return nil
}

func (s *MysqlRuleStorage) DeleteRule(ctx context.Context, ruleID string) error {
	result := s.mysqlClient.WithContext(ctx).Delete(&model.Rule{}, "id = ?", ruleID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule from mysql: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", model.ErrRuleNotFound, ruleID)
	}
	return nil
}

type MysqlQueryHeaderStorage struct {
	mysqlClient *gorm.DB
}

func NewMysqlQueryHeaderStorage(mysqlClient *gorm.DB) *MysqlQueryHeaderStorage {
	return &MysqlQueryHeaderStorage{mysqlClient: mysqlClient}
}

var _ QueryHeaderStorageIface = (*MysqlQueryHeaderStorage)(nil)

func (s *MysqlQueryHeaderStorage) ListGroups(ctx context.Context) ([]*model.QueryHeaderRule, error) {
	var groups []*model.QueryHeaderRule
	if err := s.mysqlClient.WithContext(ctx).Order("created_at, id").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list query/header rules from mysql: %w", err)
	}
	return groups, nil
}

func (s *MysqlQueryHeaderStorage) GetGroup(ctx context.Context, groupID string) (*model.QueryHeaderRule, error) {
	group := &model.QueryHeaderRule{}
	if err := s.mysqlClient.WithContext(ctx).First(group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrGroupNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to get query/header rule from mysql: %w", err)
	}
	return group, nil
}

func (s *MysqlQueryHeaderStorage) CreateGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	if err := s.mysqlClient.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to save query/header rule to mysql: %w", err)
	}
	return nil
}

func (s *MysqlQueryHeaderStorage) UpdateGroup(ctx context.Context, group *model.QueryHeaderRule) error {
	result := s.mysqlClient.WithContext(ctx).Model(&model.QueryHeaderRule{}).
		Where("id = ?", group.ID).
		Select("*").Omit("id", "created_at").
		Updates(group)
	if result.Error != nil {
		return fmt.Errorf("failed to update query/header rule in mysql: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, group.ID)
	}
	return nil
}

func (s *MysqlQueryHeaderStorage) DeleteGroup(ctx context.Context, groupID string) error {
	result := s.mysqlClient.WithContext(ctx).Delete(&model.QueryHeaderRule{}, "id = ?", groupID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete query/header rule from mysql: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", model.ErrGroupNotFound, groupID)
	}
	return nil
}
