// Package connectivity answers "can the remote API be reached right now?"
// and turns the answer into a stream of changes.
package connectivity

import (
	"context"
	"sync/atomic"
)

// Checker reports whether a validated internet path is available. It has
// no error path: anything that prevents a positive answer means offline.
type Checker interface {
	IsConnected(ctx context.Context) bool
}

// Static is a Checker whose answer is set by hand.
type Static struct {
	connected atomic.Bool
}

func NewStatic(connected bool) *Static {
	s := &Static{}
	s.connected.Store(connected)
	return s
}

func (s *Static) Set(connected bool) {
	s.connected.Store(connected)
}

func (s *Static) IsConnected(context.Context) bool {
	return s.connected.Load()
}
