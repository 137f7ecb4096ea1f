package database

import (
	"context"
	"fmt"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/uptrace/bun"
)

// Migrate creates the scan log schema when missing.
func Migrate(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	if _, err := db.NewCreateTable().
		Model((*models.ScanRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create scan_records: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*models.ScanRecord)(nil)).
		Index("scan_records_session_idx").
		Column("event_id", "scan_session_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to index scan_records: %w", err)
	}

	log.LogDatabase("MIGRATE", "scan_records", "Schema up to date")
	return nil
}
