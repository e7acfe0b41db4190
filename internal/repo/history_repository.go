package repo

import (
	"context"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

// HistoryRepository keeps the most recent sync reports.
type HistoryRepository interface {
	Record(ctx context.Context, r models.SyncReport) error
	// Recent returns at most limit reports, newest first. A limit <= 0
	// returns everything kept.
	Recent(ctx context.Context, limit int) ([]models.SyncReport, error)
}
