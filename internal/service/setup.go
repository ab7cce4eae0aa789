package service

import (
	"fmt"

	"tg-appeals/internal/config"
	"tg-appeals/internal/logger"
	"tg-appeals/internal/models"
	"tg-appeals/internal/storage"
)

var (
	sessionManager   = models.NewSessionManager()
	appealRepository *storage.AppealRepository
	adminRepository  *storage.AdminRepository
	globalConfig     *config.Config
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitRepositories sets up the repositories and their tables. Persistence
// is not optional for this bot: the caller should treat an error as fatal.
func InitRepositories() error {
	if storage.DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	appealRepository = storage.NewAppealRepository(storage.DB)
	if err := appealRepository.MigrateTable(); err != nil {
		return fmt.Errorf("migrating appeals table: %w", err)
	}

	adminRepository = storage.NewAdminRepository(storage.DB)
	if err := adminRepository.MigrateTable(); err != nil {
		return fmt.Errorf("migrating admins table: %w", err)
	}

	// First boot: populate the admin table from configuration.
	if globalConfig != nil {
		if err := adminRepository.Seed(globalConfig.Bot.AdminIDs, globalConfig.Bot.OwnerID); err != nil {
			logger.Warningf("Error seeding admin table: %v", err)
		}
	}

	return nil
}

// Sessions returns the manager for in-progress appeal sessions.
func Sessions() *models.SessionManager {
	return sessionManager
}
