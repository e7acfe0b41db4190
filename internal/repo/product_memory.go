package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *InMemoryProductRepository) GetUnsynced(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	for _, p := range r.products {
		if !p.Synced {
			out = append(out, p)
		}
	}
	return out, nil
}

// Insert adds a product, replacing an existing row with the same id.
func (r *InMemoryProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(p), nil
}

func (r *InMemoryProductRepository) insert(p models.Product) models.Product {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
		r.products = append(r.products, p)
		return p
	}

	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	for i, existing := range r.products {
		if existing.ID == p.ID {
			r.products[i] = p
			return p
		}
	}
	r.products = append(r.products, p)
	sortByID(r.products)
	return p
}

func (r *InMemoryProductRepository) InsertMany(ctx context.Context, ps []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		r.insert(p)
	}
	return nil
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.products {
		if existing.ID == p.ID {
			r.products[i] = p
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	return nil
}

func (r *InMemoryProductRepository) ReplaceAll(ctx context.Context, ps []models.Product, keepUnsynced bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := []models.Product{}
	if keepUnsynced {
		for _, p := range r.products {
			if !p.Synced {
				kept = append(kept, p)
			}
		}
	}
	r.products = kept
	for _, p := range ps {
		r.insert(p)
	}
	return nil
}

func (r *InMemoryProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	all, _ := r.GetAll(ctx)
	if query == "" {
		return all, nil
	}
	return FilterProducts(all, query), nil
}

func sortByID(ps []models.Product) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}
