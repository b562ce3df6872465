package httpreq

import (
	"context"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"httpreq/internal/panics"
	"httpreq/internal/transport"
	"httpreq/internal/worker"
)

// Submit spawns a worker goroutine that drives opts to completion and
// returns immediately with a Handle. ctx bounds the request in
// addition to (not instead of) Options.Timeout: whichever deadline
// expires first ends the attempt.
//
// opts.URL is the only required field.
func Submit(ctx context.Context, opts Options) *Handle {
	rec := worker.NewRecord(opts.toWorkerOptions())
	eg := new(errgroup.Group)

	clk := clock.New()
	eg.Go(func() error {
		err := panics.Guard(func() { worker.Run(ctx, clk, rec) })
		if err != nil {
			rec.FailIfRunning(err)
		}
		return err
	})

	return &Handle{rec: rec, eg: eg}
}

// TLSAvailable reports whether the compiled-in TLS backend is currently
// usable. It can return false when backend B's shared library failed
// to load; plain HTTP requests are unaffected either way.
func TLSAvailable() bool {
	return transport.TLSAvailable()
}

// Open installs the client. It exists to mirror the module-lifecycle
// contract callers of the underlying engine expect (see Shutdown); it
// performs no work of its own, since every subsystem here initializes
// lazily on first use.
func Open() {}

// Shutdown releases the shared TLS backend state and, on platforms
// that require it, tears down the process-wide socket subsystem if
// this process initialized it. Safe to call even if no request was
// ever submitted, and safe to call more than once.
func Shutdown() {
	transport.ShutdownTLS()
}
