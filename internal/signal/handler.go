// Package signal turns SIGINT and SIGTERM into context cancellation for
// adpilot runs.
//
// The first signal cancels the run context: the engine marks the running
// task cancelled and writes a final checkpoint. A second signal closes
// Forced so main can exit without waiting for in-flight provider calls.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handler cancels its context on the first interrupt and reports a forced
// shutdown on the second.
type Handler struct {
	ctx           context.Context //nolint:containedctx // handler owns the run context lifecycle
	cancel        context.CancelFunc
	interrupted   chan struct{}
	forced        chan struct{}
	done          chan struct{}
	sigChan       chan os.Signal
	received      atomic.Int32
	interruptOnce sync.Once
	forceOnce     sync.Once
	stopOnce      sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := engine.ExecuteTask(h.Context(), t, progress)
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		forced:      make(chan struct{}),
		done:        make(chan struct{}),
		// signal.Notify does not block; a buffer of one keeps the first signal.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context is cancelled by the first signal or by Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when the first signal arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Forced closes when a second signal arrives.
func (h *Handler) Forced() <-chan struct{} {
	return h.forced
}

// Stop stops listening and cancels the context. It is safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handleSignal() {
	switch h.received.Add(1) {
	case 1:
		h.interruptOnce.Do(func() {
			h.cancel()
			close(h.interrupted)
		})
	default:
		h.forceOnce.Do(func() { close(h.forced) })
	}
}

// listen keeps draining signals after cancellation so a second Ctrl+C is
// still observed.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
