package repo

import (
	"database/sql"
)

// SQLiteProductRepository is the default local store: one file on the
// device, written by a single connection.
type SQLiteProductRepository struct {
	sqlProductRepository
}

func NewSQLiteProductRepository(db *sql.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{sqlProductRepository{
		db: db,
		dialect: sqlDialect{
			containsName: `instr(product_name, ?) > 0`,
		},
	}}
}
