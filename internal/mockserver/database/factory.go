package database

import (
	"fmt"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database based on configuration
func NewDatabase(cfg *config.DatabaseConfig) (Database, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case cnst.DatabaseTypePostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case cnst.DatabaseTypeMySQL:
		dialector = mysql.Open(cfg.GetDSN())
	case cnst.DatabaseTypeSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&Player{}, &Tunnel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Gorm{db: db}, nil
}
