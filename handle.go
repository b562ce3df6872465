package httpreq

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"httpreq/internal/worker"
)

// Progress is a non-blocking snapshot of a request's transfer counters.
// Total is -1 when the response's content length is not yet known.
type Progress struct {
	Uploaded   int64
	Downloaded int64
	Total      int64
}

// Result is the outcome of a completed request.
type Result struct {
	Body    []byte
	Status  int
	Headers map[string]string
}

// Handle is returned by Submit. It is safe for concurrent use by
// multiple goroutines: Done and Progress never block, and Result may
// be called from any goroutine and more than once (each call waits on
// the same worker and returns the same outcome).
type Handle struct {
	rec *worker.Record
	eg  *errgroup.Group

	consumed atomic.Bool
}

// Done reports whether the request has reached a terminal state. It
// never blocks.
func (h *Handle) Done() bool {
	return h.rec.Done()
}

// Progress takes a non-blocking snapshot of the transfer counters.
func (h *Handle) Progress() Progress {
	p := h.rec.Progress()
	return Progress{Uploaded: p.Uploaded, Downloaded: p.Downloaded, Total: p.Total}
}

// Result joins the worker goroutine (blocking until the request
// terminates, however far along it already is) and returns the
// response. It may be called safely whether or not Done() has already
// returned true. Calling Result after Close reports
// ErrAlreadyConsumed.
func (h *Handle) Result() (Result, error) {
	if h.consumed.Load() {
		return Result{}, ErrAlreadyConsumed
	}
	if err := h.eg.Wait(); err != nil {
		return Result{}, err
	}
	if h.rec.State() == worker.StateError {
		return Result{}, h.rec.Err
	}
	return Result{
		Body:    h.rec.Body,
		Status:  h.rec.Status,
		Headers: h.rec.HeadersMap,
	}, nil
}

// TryResult is the non-blocking counterpart to Result: it returns
// ErrRequestInProgress instead of joining the worker when the request
// has not yet reached a terminal state.
func (h *Handle) TryResult() (Result, error) {
	if !h.Done() {
		return Result{}, ErrRequestInProgress
	}
	return h.Result()
}

// Close joins the worker and marks the handle consumed. It is
// idempotent: a second Close is a no-op.
func (h *Handle) Close() error {
	if h.consumed.Swap(true) {
		return nil
	}
	return h.eg.Wait()
}
