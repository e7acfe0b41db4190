package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/watch"
	"go.uber.org/zap"
)

// Watcher polls a Checker and publishes the status only when it changes.
// The status starts as offline, so a first positive poll counts as a
// reconnect.
type Watcher struct {
	checker  Checker
	interval time.Duration
	status   *watch.Subject[bool]

	mu          sync.Mutex
	onReconnect []func(context.Context)
}

func NewWatcher(checker Checker, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		checker:  checker,
		interval: interval,
		status:   watch.NewSubject(false),
	}
}

// OnReconnect registers fn to run once for every offline to online change.
func (w *Watcher) OnReconnect(fn func(context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReconnect = append(w.onReconnect, fn)
}

// Observe emits the current status and then every change.
func (w *Watcher) Observe(ctx context.Context) <-chan bool {
	return w.status.Subscribe(ctx)
}

// Connected returns the last observed status.
func (w *Watcher) Connected() bool {
	return w.status.Value()
}

// Check polls once, publishes a change and fires the reconnect callbacks
// on a rising edge.
func (w *Watcher) Check(ctx context.Context) bool {
	now := w.checker.IsConnected(ctx)

	w.mu.Lock()
	prev := w.status.Value()
	if now != prev {
		w.status.Set(now)
	}
	var callbacks []func(context.Context)
	if now && !prev {
		callbacks = append(callbacks, w.onReconnect...)
	}
	w.mu.Unlock()

	if now != prev {
		zap.L().Info("connectivity changed", zap.Bool("connected", now))
	}
	for _, fn := range callbacks {
		fn(ctx)
	}
	return now
}

// Run polls until ctx is done and then ends every observation.
func (w *Watcher) Run(ctx context.Context) {
	defer w.status.Close()

	w.Check(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}
