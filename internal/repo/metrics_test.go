package repo_test

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	repo "github.com/rogerio-castellano/catalog-sync/internal/repo"
)

func TestDashboardMetrics(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()

		var metrics repo.MetricsRepository = repo.NewInMemoryMetricsRepository(r)
		if m, ok := r.(repo.MetricsRepository); ok {
			metrics = m
		}

		empty, err := metrics.GetDashboardMetrics(ctx)
		if err != nil {
			t.Fatalf("metrics on empty store: %v", err)
		}
		if empty != (repo.Metrics{}) {
			t.Errorf("expected zero metrics, got %+v", empty)
		}

		r.InsertMany(ctx, []models.Product{
			{Name: "Pen", Type: "Stationery", Synced: true},
			{Name: "Ink", Type: "Stationery", Synced: false},
			{Name: "Cup", Type: "Kitchen", Synced: false},
		})

		m, err := metrics.GetDashboardMetrics(ctx)
		if err != nil {
			t.Fatalf("metrics: %v", err)
		}
		want := repo.Metrics{
			TotalProducts:    3,
			UnsyncedProducts: 2,
			MostCommonType:   repo.TypeCount{Type: "Stationery", Count: 2},
		}
		if m != want {
			t.Errorf("expected %+v, got %+v", want, m)
		}
	})
}
