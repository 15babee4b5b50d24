package db

import (
	"fmt"

	"github.com/yungbote/prizely-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureCatalogIndexes adds the lookup indexes AutoMigrate cannot express.
func EnsureCatalogIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_items_name_lower", `CREATE INDEX IF NOT EXISTS idx_items_name_lower ON items (lower(name));`},
		{"idx_markets_name_lower", `CREATE INDEX IF NOT EXISTS idx_markets_name_lower ON markets (lower(name));`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
