package repo

import (
	"context"
	"database/sql"
	"errors"
)

// GetDashboardMetrics lets the SQL stores serve MetricsRepository without a
// full table scan.
func (r *sqlProductRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts); err != nil {
		return m, err
	}
	if err := r.db.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM products WHERE is_synced = ?`), false).
		Scan(&m.UnsyncedProducts); err != nil {
		return m, err
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT product_type, COUNT(*) AS cnt
		FROM products
		GROUP BY product_type
		ORDER BY cnt DESC, product_type
		LIMIT 1
	`).Scan(&m.MostCommonType.Type, &m.MostCommonType.Count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, err
	}
	return m, nil
}
