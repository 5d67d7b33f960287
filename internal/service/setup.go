package service

import (
	"fmt"

	"tg-modsync/internal/config"
	"tg-modsync/internal/logger"
	"tg-modsync/internal/moderation"
	"tg-modsync/internal/storage"
)

// Stores bundles the storage adapters consumed by the moderation layer.
// Backed by the SQL repositories when the database is enabled, by the
// JSON file store otherwise.
type Stores struct {
	Groups moderation.GroupStore
	Bans   moderation.BanStore
	Admins moderation.AdminStore
	Kicks  moderation.KickStore
	Names  moderation.NameCache
}

var (
	globalConfig *config.Config
	stores       *Stores
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitStores builds the storage adapters. Must run after
// storage.Initialize when the database is enabled.
func InitStores() error {
	if storage.DB != nil {
		groupRepo := storage.NewGroupRepository(storage.DB)
		if err := groupRepo.MigrateTable(); err != nil {
			return fmt.Errorf("failed to migrate Group table: %w", err)
		}
		banRepo := storage.NewBanRepository(storage.DB)
		if err := banRepo.MigrateTable(); err != nil {
			return fmt.Errorf("failed to migrate BanRecord table: %w", err)
		}
		adminRepo := storage.NewAdminRepository(storage.DB)
		if err := adminRepo.MigrateTable(); err != nil {
			return fmt.Errorf("failed to migrate AdminRecord table: %w", err)
		}
		kickRepo := storage.NewKickRepository(storage.DB)
		if err := kickRepo.MigrateTable(); err != nil {
			return fmt.Errorf("failed to migrate KickRecord table: %w", err)
		}
		nameRepo := storage.NewNameRepository(storage.DB)
		if err := nameRepo.MigrateTable(); err != nil {
			return fmt.Errorf("failed to migrate CachedName table: %w", err)
		}

		stores = &Stores{
			Groups: groupRepo,
			Bans:   banRepo,
			Admins: adminRepo,
			Kicks:  kickRepo,
			Names:  nameRepo,
		}
		logger.Infof("Storage initialized with database repositories")
		return nil
	}

	fileStore, err := storage.NewFileStore(globalConfig.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open file store: %w", err)
	}
	stores = &Stores{
		Groups: fileStore,
		Bans:   fileStore,
		Admins: fileStore,
		Kicks:  fileStore,
		Names:  fileStore,
	}
	logger.Infof("Storage initialized with file store at %s", globalConfig.Storage.DataDir)
	return nil
}

// GetStores returns the storage adapters built by InitStores.
func GetStores() *Stores {
	return stores
}
