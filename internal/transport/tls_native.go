//go:build !httpreq_openssl

package transport

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// handshakeBudget bounds how long the native backend will wait for a
// handshake to complete. crypto/tls performs the underlying bounded
// record-layer exchange internally, so this budget is enforced as a
// wall-clock deadline instead of an iteration counter.
const handshakeBudget = 30 * time.Second

// nativeBackend wraps Go's standard-library crypto/tls, which requires
// no cgo and no link-time dependency on any external TLS library. It
// stands in for a genuine OS-provided secure channel (SSPI on Windows,
// Secure Transport on Darwin) without needing per-platform bindings.
type nativeBackend struct {
	once sync.Once
	cfg  *tls.Config
}

func newBackend() Backend { return &nativeBackend{} }

func (b *nativeBackend) config() *tls.Config {
	b.once.Do(func() {
		// Lazily built once and never mutated again. Verification is
		// left ON (system trust store) rather than reproducing the
		// disabled-verification behavior some legacy clients shipped.
		b.cfg = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	})
	return b.cfg
}

func (b *nativeBackend) Available() (bool, string) { return true, "" }

func (b *nativeBackend) shutdown() {
	// The process-wide *tls.Config holds no OS handles that need
	// explicit release; dropping the reference lets the next Submit
	// rebuild it lazily.
	b.once = sync.Once{}
	b.cfg = nil
}

func (b *nativeBackend) Handshake(ctx context.Context, raw net.Conn, host string, clk clock.Clock) (net.Conn, error) {
	deadline := clk.Now().Add(handshakeBudget)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := raw.SetDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "setting handshake deadline")
	}

	cfg := b.config().Clone()
	cfg.ServerName = host

	tlsConn := tls.Client(raw, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, errors.New("TLS handshake timeout (too many iterations)")
		}
		return nil, errors.Errorf("TLS handshake failed: %v", err)
	}

	// The handshake deadline must not linger on the connection for the
	// life of the request; the worker applies its own request-scoped
	// deadlines afterward.
	if err := raw.SetDeadline(time.Time{}); err != nil {
		return nil, errors.Wrap(err, "clearing handshake deadline")
	}

	return tlsConn, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	te, ok := err.(timeouter)
	return ok && te.Timeout()
}
