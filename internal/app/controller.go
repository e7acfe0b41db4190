// Package app holds the user-facing state of the agent: the latest outcome
// of each action, the search query and the list currently shown.
package app

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/catalog-sync/internal/catalog"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"github.com/rogerio-castellano/catalog-sync/internal/watch"
	"go.uber.org/zap"
)

// Connectivity is the continuous connectivity signal.
type Connectivity interface {
	Observe(ctx context.Context) <-chan bool
	OnReconnect(fn func(context.Context))
}

type Controller struct {
	svc  *catalog.Service
	conn Connectivity

	ProductsState   *watch.Subject[resource.State[[]models.Product]]
	AddProductState *watch.Subject[resource.State[models.AddProductResponse]]
	SyncState       *watch.Subject[resource.State[int]]
	SearchQuery     *watch.Subject[string]
	LocalProducts   *watch.Subject[[]models.Product]
	IsConnected     *watch.Subject[bool]

	mu           sync.Mutex
	ctx          context.Context
	cancelSearch context.CancelFunc
	generation   uint64

	wg sync.WaitGroup
}

func NewController(svc *catalog.Service, conn Connectivity) *Controller {
	return &Controller{
		svc:             svc,
		conn:            conn,
		ProductsState:   watch.NewSubject(resource.Loading[[]models.Product]()),
		AddProductState: watch.NewSubject(resource.Idle[models.AddProductResponse]()),
		SyncState:       watch.NewSubject(resource.Idle[int]()),
		SearchQuery:     watch.NewSubject(""),
		LocalProducts:   watch.NewSubject([]models.Product{}),
		IsConnected:     watch.NewSubject(false),
		ctx:             context.Background(),
	}
}

// Start registers the reconnect trigger, begins observing connectivity and
// the local table, and loads products. It must be called before the
// connectivity source starts polling. Everything stops when ctx is done.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	c.conn.OnReconnect(func(context.Context) {
		zap.L().Info("connection restored, syncing offline products")
		c.SyncUnsynced()
	})

	status := c.conn.Observe(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for connected := range status {
			c.IsConnected.Set(connected)
		}
	}()

	c.observeLocal(c.SearchQuery.Value())
	c.LoadProducts()
}

func (c *Controller) rootContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

func (c *Controller) spawn(fn func(ctx context.Context)) {
	ctx := c.rootContext()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
}

// mirror copies every state from ch into dst and returns the last one.
func mirror[T any](ch <-chan resource.State[T], dst *watch.Subject[resource.State[T]]) resource.State[T] {
	var last resource.State[T]
	for s := range ch {
		dst.Set(s)
		last = s
	}
	return last
}

// Refresh fetches the remote catalog and waits for the outcome.
func (c *Controller) Refresh(ctx context.Context) resource.State[[]models.Product] {
	return mirror(c.svc.FetchAndSave(ctx), c.ProductsState)
}

// LoadProducts is Refresh in the background.
func (c *Controller) LoadProducts() {
	c.spawn(func(ctx context.Context) { c.Refresh(ctx) })
}

// SubmitProduct adds a product and waits for the outcome.
func (c *Controller) SubmitProduct(ctx context.Context, in models.NewProduct) resource.State[models.AddProductResponse] {
	return mirror(c.svc.AddProduct(ctx, in), c.AddProductState)
}

func (c *Controller) AddProduct(in models.NewProduct) {
	c.spawn(func(ctx context.Context) { c.SubmitProduct(ctx, in) })
}

func (c *Controller) ResetAddProductState() {
	c.AddProductState.Set(resource.Idle[models.AddProductResponse]())
}

// SyncNow replays offline products and waits for the outcome. When any row
// was synced the catalog is reloaded.
func (c *Controller) SyncNow(ctx context.Context) resource.State[int] {
	st := mirror(c.svc.SyncUnsynced(ctx), c.SyncState)
	if st.Phase == resource.PhaseSuccess && st.Data > 0 {
		c.LoadProducts()
	}
	return st
}

func (c *Controller) SyncUnsynced() {
	c.spawn(func(ctx context.Context) { c.SyncNow(ctx) })
}

// UpdateSearchQuery switches the shown list to the new query. The previous
// observation is cancelled so late results from it are never shown.
func (c *Controller) UpdateSearchQuery(q string) {
	c.SearchQuery.Set(q)
	c.observeLocal(q)
}

func (c *Controller) observeLocal(q string) {
	c.mu.Lock()
	if c.cancelSearch != nil {
		c.cancelSearch()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelSearch = cancel
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	var ch <-chan []models.Product
	if q == "" {
		ch = c.svc.Products(ctx)
	} else {
		ch = c.svc.Search(ctx, q)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for ps := range ch {
			c.mu.Lock()
			if gen == c.generation {
				c.LocalProducts.Set(ps)
			}
			c.mu.Unlock()
		}
	}()
}

// Wait blocks until every goroutine started by the controller returns.
// Cancel the context given to Start first.
func (c *Controller) Wait() {
	c.wg.Wait()
}
