package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

// ProductRepository defines the operations of the local product table.
type ProductRepository interface {
	// GetAll returns every row in store order (ascending id).
	GetAll(ctx context.Context) ([]models.Product, error)
	// GetUnsynced returns the rows still waiting for a deferred sync.
	GetUnsynced(ctx context.Context) ([]models.Product, error)
	// Insert stores p, replacing the row with the same id if there is one.
	// A zero id is assigned by the store.
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	// InsertMany inserts ps with the same replace-on-conflict rule.
	InsertMany(ctx context.Context, ps []models.Product) error
	Update(ctx context.Context, p models.Product) (models.Product, error)
	DeleteAll(ctx context.Context) error
	// ReplaceAll deletes the table and inserts ps in one atomic step. When
	// keepUnsynced is set, rows with Synced == false survive the delete.
	ReplaceAll(ctx context.Context, ps []models.Product, keepUnsynced bool) error
	// Search returns rows whose name contains query, newest first.
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")
