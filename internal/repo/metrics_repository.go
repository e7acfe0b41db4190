package repo

import "context"

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type Metrics struct {
	TotalProducts    int       `json:"total_products"`
	UnsyncedProducts int       `json:"unsynced_products"`
	MostCommonType   TypeCount `json:"most_common_type"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
