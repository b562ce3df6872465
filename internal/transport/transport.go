package transport

import (
	"context"
	"net"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Backend is the TLS transport contract satisfied by exactly one of
// tls_native.go (default) or tls_openssl.go (build tag
// httpreq_openssl); the two are mutually exclusive at compile time.
type Backend interface {
	// Available reports whether this backend can currently perform a
	// handshake (e.g. backend B reports false when the shared library
	// failed to load).
	Available() (bool, string)
	// Handshake upgrades raw into a TLS connection for host, returning
	// a net.Conn that transparently encrypts/decrypts application data.
	Handshake(ctx context.Context, raw net.Conn, host string, clk clock.Clock) (net.Conn, error)
}

var backend Backend = newBackend()

// TLSAvailable reports whether the compiled-in TLS backend is currently
// usable.
func TLSAvailable() bool {
	ok, _ := backend.Available()
	return ok
}

// ShutdownTLS releases any process-wide TLS backend state and tears
// down the socket subsystem if this process initialized it. Safe to
// call even if no request ever used TLS.
func ShutdownTLS() {
	if s, ok := backend.(interface{ shutdown() }); ok {
		s.shutdown()
	}
	resetSocketSubsystem()
}

// Dial resolves host, attempts each returned address in order, and
// returns the first successful TCP connection, optionally upgraded to
// TLS.
func Dial(ctx context.Context, clk clock.Clock, https bool, host, port string) (net.Conn, error) {
	if err := ensureSocketSubsystem(); err != nil {
		return nil, err
	}

	if https {
		if ok, reason := backend.Available(); !ok {
			return nil, errors.Errorf("HTTPS not available (%s)", reason)
		}
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, errors.Wrapf(err, "getaddrinfo(%s:%s) failed", host, port)
	}
	if len(addrs) == 0 {
		return nil, errors.Errorf("getaddrinfo(%s:%s) failed: no addresses", host, port)
	}

	dialer := &net.Dialer{}
	var conn net.Conn
	var lastErr error
	for _, addr := range addrs {
		target := net.JoinHostPort(addr.IP.String(), port)
		c, dialErr := dialer.DialContext(ctx, "tcp", target)
		if dialErr != nil {
			lastErr = dialErr
			continue
		}
		conn = c
		break
	}
	if conn == nil {
		return nil, errors.Errorf("connect(%s:%s) failed: %v", host, port, lastErr)
	}

	if !https {
		return conn, nil
	}

	tlsConn, err := backend.Handshake(ctx, conn, host, clk)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
