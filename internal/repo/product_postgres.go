package repo

import (
	"database/sql"
)

// PostgresProductRepository keeps the local table in PostgreSQL, for
// installations where several terminals share one catalog cache.
type PostgresProductRepository struct {
	sqlProductRepository
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{sqlProductRepository{
		db: db,
		dialect: sqlDialect{
			numbered:     true,
			containsName: `strpos(product_name, ?) > 0`,
		},
	}}
}
