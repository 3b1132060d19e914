// Package stream drives incremental consumption of a result set with
// cooperative backpressure: at most one row handler is in flight at a time,
// handlers run in exact source order, and a handler failure terminates the
// underlying source before any further row is delivered.
package stream

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

// State of a streaming operation.
type State int32

const (
	// Idle: the controller has not started consuming the source.
	Idle State = iota
	// Streaming: rows are being pulled and handled.
	Streaming
	// Draining: the source has reported its terminal signal; the controller
	// is finishing in-flight work and releasing the source.
	Draining
	// Failed: the operation ended with a handler or source failure.
	Failed
	// Done: the source was exhausted and every handler completed.
	Done
)

// Source is an incremental, closable sequence of rows. Next returns io.EOF
// once the sequence is exhausted; any other error is a source fault. Close
// must tolerate being called more than once.
type Source interface {
	Next() (map[string]any, error)
	Close() error
}

// Handler consumes one row. Returning an error terminates the stream.
type Handler func(row map[string]any) error

// HandlerError is the terminal outcome when a row handler fails.
type HandlerError struct {
	Row int // zero-based index of the failed row
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("row handler failed on row %d: %v", e.Row, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// SourceError is the terminal outcome when the underlying row source fails.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("row source failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Controller runs one streaming operation. A Controller is single-use.
type Controller struct {
	state atomic.Int32
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// State reports the controller's current state. Safe to call from any
// goroutine.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
}

type fetched struct {
	row map[string]any
	err error
}

// Run consumes the source until exhaustion, a handler failure, a source fault,
// or context cancellation. A fetch goroutine pulls rows and hands them over an
// unbuffered channel; the hand-off blocks until the controller is ready, and
// the controller is never ready while a handler is in flight. That hand-off is
// the backpressure mechanism: no queue, no buffer, no overlap.
func (c *Controller) Run(ctx context.Context, src Source, handle Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer src.Close()

	rows := make(chan fetched)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(rows)
		for {
			row, err := src.Next()
			select {
			case rows <- fetched{row: row, err: err}:
				if err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	c.setState(Streaming)
	index := 0
	for {
		select {
		case <-ctx.Done():
			c.setState(Failed)
			return ctx.Err()
		case f, ok := <-rows:
			if !ok {
				c.setState(Done)
				return nil
			}
			if f.err == io.EOF {
				c.setState(Draining)
				src.Close()
				c.setState(Done)
				return nil
			}
			if f.err != nil {
				c.setState(Draining)
				src.Close()
				c.setState(Failed)
				return &SourceError{Err: f.err}
			}
			// Cancellation wins over a row that arrived in the same instant.
			select {
			case <-ctx.Done():
				c.setState(Failed)
				return ctx.Err()
			default:
			}
			if err := handle(f.row); err != nil {
				c.setState(Failed)
				return &HandlerError{Row: index, Err: err}
			}
			index++
		}
	}
}

// RunSync consumes the source with a plain pull loop: the next row is not
// requested until the current handler has returned, which gives the same
// ordering and termination guarantees as Run without a fetch goroutine. The
// handler is expected to return promptly.
func (c *Controller) RunSync(src Source, handle Handler) error {
	defer src.Close()

	c.setState(Streaming)
	for index := 0; ; index++ {
		row, err := src.Next()
		if err == io.EOF {
			c.setState(Done)
			return nil
		}
		if err != nil {
			c.setState(Failed)
			return &SourceError{Err: err}
		}
		if err := handle(row); err != nil {
			c.setState(Failed)
			return &HandlerError{Row: index, Err: err}
		}
	}
}

// Run streams src through handle with a fresh controller.
func Run(ctx context.Context, src Source, handle Handler) error {
	return NewController().Run(ctx, src, handle)
}

// RunSync streams src through handle synchronously with a fresh controller.
func RunSync(src Source, handle Handler) error {
	return NewController().RunSync(src, handle)
}
