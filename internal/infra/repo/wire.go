package repo

import (
	"go_mockapi_server/internal/infra/storage"

	"github.com/google/wire"
)

var Reposet = wire.NewSet(
	NewRuleRepoConfig,
	storage.StorageSet,
	NewWarmupPool,
	NewRuleRepoImpl,
	NewQueryHeaderRepoImpl,
)
