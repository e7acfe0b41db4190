// Package resource models the progress of an asynchronous operation as seen
// by its observers: nothing yet, loading, or one terminal outcome.
package resource

import "context"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is a tagged union. Data is only meaningful in PhaseSuccess and
// Message only in PhaseError.
type State[T any] struct {
	Phase   Phase
	Data    T
	Message string
}

func Idle[T any]() State[T] {
	return State[T]{Phase: PhaseIdle}
}

func Loading[T any]() State[T] {
	return State[T]{Phase: PhaseLoading}
}

func Success[T any](data T) State[T] {
	return State[T]{Phase: PhaseSuccess, Data: data}
}

func Error[T any](message string) State[T] {
	return State[T]{Phase: PhaseError, Message: message}
}

// Terminal reports whether the state ends an operation.
func (s State[T]) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseError
}

// Run starts fn on its own goroutine. The returned channel yields Loading,
// then the state fn returns, and is then closed. It is buffered for both
// values so an abandoned channel never blocks the worker.
func Run[T any](ctx context.Context, fn func(context.Context) State[T]) <-chan State[T] {
	out := make(chan State[T], 2)
	out <- Loading[T]()
	go func() {
		defer close(out)
		out <- fn(ctx)
	}()
	return out
}

// Await drains ch and returns the last state received, which is the
// terminal one for channels produced by Run.
func Await[T any](ch <-chan State[T]) State[T] {
	var last State[T]
	for s := range ch {
		last = s
	}
	return last
}
