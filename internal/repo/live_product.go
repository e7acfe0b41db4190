package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/watch"
	"go.uber.org/zap"
)

// LiveProductRepository wraps a ProductRepository and republishes the full
// table after every successful write made through it. Writes are serialized.
// Reads go straight to the wrapped store.
type LiveProductRepository struct {
	ProductRepository

	mu       sync.Mutex
	snapshot *watch.Subject[[]models.Product]
}

func NewLiveProductRepository(ctx context.Context, store ProductRepository) (*LiveProductRepository, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	return &LiveProductRepository{
		ProductRepository: store,
		snapshot:          watch.NewSubject(all),
	}, nil
}

// Observe emits the current table and then a new snapshot after each write.
func (r *LiveProductRepository) Observe(ctx context.Context) <-chan []models.Product {
	return r.snapshot.Subscribe(ctx)
}

// ObserveSearch is Observe filtered through Search. An empty query behaves
// exactly like Observe.
func (r *LiveProductRepository) ObserveSearch(ctx context.Context, query string) <-chan []models.Product {
	if query == "" {
		return r.Observe(ctx)
	}

	src := r.snapshot.Subscribe(ctx)
	out := make(chan []models.Product, 1)
	go func() {
		defer close(out)
		for range src {
			ps, err := r.ProductRepository.Search(ctx, query)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Warn("search snapshot failed", zap.String("query", query), zap.Error(err))
				continue
			}
			select {
			case out <- ps:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Snapshot returns the last published table.
func (r *LiveProductRepository) Snapshot() []models.Product {
	return r.snapshot.Value()
}

func (r *LiveProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.ProductRepository.Insert(ctx, p)
	if err != nil {
		return saved, err
	}
	r.publish(ctx)
	return saved, nil
}

func (r *LiveProductRepository) InsertMany(ctx context.Context, ps []models.Product) error {
	return r.write(ctx, func() error { return r.ProductRepository.InsertMany(ctx, ps) })
}

func (r *LiveProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated, err := r.ProductRepository.Update(ctx, p)
	if err != nil {
		return updated, err
	}
	r.publish(ctx)
	return updated, nil
}

func (r *LiveProductRepository) DeleteAll(ctx context.Context) error {
	return r.write(ctx, func() error { return r.ProductRepository.DeleteAll(ctx) })
}

func (r *LiveProductRepository) ReplaceAll(ctx context.Context, ps []models.Product, keepUnsynced bool) error {
	return r.write(ctx, func() error { return r.ProductRepository.ReplaceAll(ctx, ps, keepUnsynced) })
}

// Close ends every observation.
func (r *LiveProductRepository) Close() {
	r.snapshot.Close()
}

func (r *LiveProductRepository) write(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	r.publish(ctx)
	return nil
}

// publish must be called with r.mu held.
func (r *LiveProductRepository) publish(ctx context.Context) {
	all, err := r.ProductRepository.GetAll(ctx)
	if err != nil {
		zap.L().Warn("reading snapshot after write failed", zap.Error(err))
		return
	}
	r.snapshot.Set(all)
}
