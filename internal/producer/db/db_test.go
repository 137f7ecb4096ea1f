package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-storefront/internal/models"
	"ms-storefront/internal/producer/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bunDB.Close() })

	_, err = bunDB.NewCreateTable().Model((*models.ScanRecord)(nil)).Exec(context.Background())
	require.NoError(t, err)

	return &db.DB{Bun: bunDB}
}

func scan(eventID, session string, success bool, at time.Time) *models.ScanRecord {
	return &models.ScanRecord{
		ID:            uuid.New().String(),
		EventID:       eventID,
		ScanSessionID: session,
		QRCode:        "QR-" + uuid.New().String()[:8],
		Success:       success,
		ScannedAt:     at,
	}
}

func TestCountSuccessfulPerSession(t *testing.T) {
	scans := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 20, 21, 0, 0, 0, time.UTC)

	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s1", true, now)))
	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s1", true, now.Add(time.Second))))
	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s1", false, now.Add(2*time.Second))))
	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s2", true, now)))
	require.NoError(t, scans.CreateScan(ctx, scan("evt-2", "s1", true, now)))

	count, err := scans.CountSuccessful(ctx, "evt-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClearSessionKeepsHistory(t *testing.T) {
	scans := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 20, 21, 0, 0, 0, time.UTC)

	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s1", true, now)))
	require.NoError(t, scans.CreateScan(ctx, scan("evt-1", "s1", true, now.Add(time.Minute))))

	cleared, err := scans.ClearSession(ctx, "evt-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	count, err := scans.CountSuccessful(ctx, "evt-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	recent, err := scans.RecentScans(ctx, "evt-1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].ScannedAt.After(recent[1].ScannedAt))
}
