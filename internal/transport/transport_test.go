package transport_test

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpreq/internal/transport"
)

func TestTLSAvailable_NativeBackendAlwaysAvailable(t *testing.T) {
	assert.True(t, transport.TLSAvailable())
}

func TestDial_PlainHTTP(t *testing.T) {
	srv := httptest.NewServer(nil)
	defer srv.Close()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)

	conn, err := transport.Dial(context.Background(), clock.New(), false, host, port)
	require.NoError(t, err)
	defer conn.Close()
}

func TestDial_HTTPS(t *testing.T) {
	srv := httptest.NewTLSServer(nil)
	defer srv.Close()

	host, port, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "https://"))
	require.NoError(t, err)

	// httptest's TLS server uses a self-signed cert; the native backend
	// verifies by default, so this dial is expected to fail with a
	// certificate error rather than succeed silently.
	_, err = transport.Dial(context.Background(), clock.New(), true, host, port)
	assert.Error(t, err)
}

func TestDial_ConnectFailure(t *testing.T) {
	_, err := transport.Dial(context.Background(), clock.New(), false, "127.0.0.1", "1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connect(")
}
