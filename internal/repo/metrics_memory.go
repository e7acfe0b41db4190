package repo

import (
	"context"
	"sort"
)

// InMemoryMetricsRepository computes metrics from a full scan of any
// ProductRepository.
type InMemoryMetricsRepository struct {
	productRepo ProductRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo}
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	byType := make(map[string]int)
	for _, p := range products {
		if !p.Synced {
			m.UnsyncedProducts++
		}
		byType[p.Type]++
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	// ties go to the alphabetically first type
	sort.Strings(types)
	for _, t := range types {
		if byType[t] > m.MostCommonType.Count {
			m.MostCommonType = TypeCount{Type: t, Count: byType[t]}
		}
	}
	return m, nil
}
