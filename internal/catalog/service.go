// Package catalog keeps the local product store in step with the remote
// catalog: it refreshes from the remote, accepts new products online or
// offline, and replays offline products once connectivity returns.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-sync/internal/connectivity"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/repo"
)

const (
	MsgOfflineCached = "No internet connection. Showing cached data."
	MsgOffline       = "No internet connection"
	MsgSavedOffline  = "Product saved offline. Will sync when internet is available."

	fallbackFetch = "An error occurred"
	fallbackAdd   = "Failed to add product"
	fallbackSync  = "Failed to sync products"
)

// Remote is the subset of the catalog API the service needs.
type Remote interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, in models.NewProduct) (models.AddProductResponse, error)
}

// Store is a product repository that can also be observed.
type Store interface {
	repo.ProductRepository
	Observe(ctx context.Context) <-chan []models.Product
	ObserveSearch(ctx context.Context, query string) <-chan []models.Product
}

type Service struct {
	store        Store
	remote       Remote
	checker      connectivity.Checker
	history      repo.HistoryRepository
	keepUnsynced bool
	now          func() time.Time
	newID        func() string

	// serializes deferred-sync passes and refreshes: a row is never submitted
	// twice, and a refresh never lands between a remote accept and the flag update
	syncMu sync.Mutex
}

type Option func(*Service)

// WithHistory records a report for every deferred-sync pass.
func WithHistory(h repo.HistoryRepository) Option {
	return func(s *Service) { s.history = h }
}

// WithKeepUnsynced controls whether a refresh preserves rows that were
// created offline and not yet synced.
func WithKeepUnsynced(keep bool) Option {
	return func(s *Service) { s.keepUnsynced = keep }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, remote Remote, checker connectivity.Checker, opts ...Option) *Service {
	s := &Service{
		store:        store,
		remote:       remote,
		checker:      checker,
		keepUnsynced: true,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products emits the whole local table and then a new snapshot after
// every local write.
func (s *Service) Products(ctx context.Context) <-chan []models.Product {
	return s.store.Observe(ctx)
}

// Search is Products restricted to names containing query, newest first.
// An empty query is the same as Products.
func (s *Service) Search(ctx context.Context, query string) <-chan []models.Product {
	return s.store.ObserveSearch(ctx, query)
}

// Snapshot is a one-shot Search.
func (s *Service) Snapshot(ctx context.Context, query string) ([]models.Product, error) {
	return s.store.Search(ctx, query)
}

func (s *Service) UnsyncedCount(ctx context.Context) (int, error) {
	ps, err := s.store.GetUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	return len(ps), nil
}

// History returns the most recent sync reports, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.SyncReport, error) {
	if s.history == nil {
		return []models.SyncReport{}, nil
	}
	return s.history.Recent(ctx, limit)
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
