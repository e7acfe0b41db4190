package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

type InMemoryHistoryRepository struct {
	mu      sync.Mutex
	reports []models.SyncReport
	max     int
}

// NewInMemoryHistoryRepository keeps up to max reports; older ones are dropped.
func NewInMemoryHistoryRepository(max int) *InMemoryHistoryRepository {
	if max <= 0 {
		max = 100
	}
	return &InMemoryHistoryRepository{max: max}
}

func (r *InMemoryHistoryRepository) Record(ctx context.Context, rep models.SyncReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, rep)
	if over := len(r.reports) - r.max; over > 0 {
		r.reports = append([]models.SyncReport(nil), r.reports[over:]...)
	}
	return nil
}

func (r *InMemoryHistoryRepository) Recent(ctx context.Context, limit int) ([]models.SyncReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.reports)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.SyncReport, 0, n)
	for i := len(r.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.reports[i])
	}
	return out, nil
}
