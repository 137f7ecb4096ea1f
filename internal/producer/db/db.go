package db

import (
	"context"

	"ms-storefront/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// CreateScan → insert one validation attempt
func (d *DB) CreateScan(ctx context.Context, rec *models.ScanRecord) error {
	_, err := d.Bun.NewInsert().Model(rec).Exec(ctx)
	return err
}

// CountSuccessful → valid scans of the current scanner session
func (d *DB) CountSuccessful(ctx context.Context, eventID, scanSessionID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.ScanRecord)(nil)).
		Where("event_id = ?", eventID).
		Where("scan_session_id = ?", scanSessionID).
		Where("success = ?", true).
		Where("cleared = ?", false).
		Count(ctx)
}

// ClearSession → reset the counter without losing the audit trail
func (d *DB) ClearSession(ctx context.Context, eventID, scanSessionID string) (int64, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.ScanRecord)(nil)).
		Set("cleared = ?", true).
		Where("event_id = ?", eventID).
		Where("scan_session_id = ?", scanSessionID).
		Where("cleared = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RecentScans → latest attempts for an event, newest first
func (d *DB) RecentScans(ctx context.Context, eventID string, limit int) ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	err := d.Bun.NewSelect().
		Model(&records).
		Where("event_id = ?", eventID).
		Order("scanned_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
