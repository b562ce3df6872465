//go:build httpreq_openssl

package transport

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void SSL_CTX;
typedef void SSL;
typedef const void SSL_METHOD;

typedef SSL_METHOD *(*fn_TLS_client_method)(void);
typedef SSL_CTX *(*fn_SSL_CTX_new)(SSL_METHOD *);
typedef void (*fn_SSL_CTX_free)(SSL_CTX *);
typedef long (*fn_SSL_CTX_set_default_verify_paths)(SSL_CTX *);
typedef SSL *(*fn_SSL_new)(SSL_CTX *);
typedef void (*fn_SSL_free)(SSL *);
typedef int (*fn_SSL_set_fd)(SSL *, int);
typedef int (*fn_SSL_set_tlsext_host_name)(SSL *, const char *);
typedef int (*fn_SSL_connect)(SSL *);
typedef int (*fn_SSL_read)(SSL *, void *, int);
typedef int (*fn_SSL_write)(SSL *, const void *, int);
typedef int (*fn_SSL_shutdown)(SSL *);
typedef int (*fn_SSL_get_error)(const SSL *, int);
typedef int (*fn_OPENSSL_init_ssl)(unsigned long long, const void *);

static void *xdlopen(const char *name) { return dlopen(name, RTLD_NOW | RTLD_GLOBAL); }
static void *xdlsym(void *handle, const char *name) { return dlsym(handle, name); }

static SSL_METHOD *call_TLS_client_method(void *f) {
	return ((fn_TLS_client_method)f)();
}
static SSL_CTX *call_SSL_CTX_new(void *f, SSL_METHOD *m) {
	return ((fn_SSL_CTX_new)f)(m);
}
static void call_SSL_CTX_free(void *f, SSL_CTX *ctx) { ((fn_SSL_CTX_free)f)(ctx); }
static long call_SSL_CTX_set_default_verify_paths(void *f, SSL_CTX *ctx) {
	return ((fn_SSL_CTX_set_default_verify_paths)f)(ctx);
}
static SSL *call_SSL_new(void *f, SSL_CTX *ctx) { return ((fn_SSL_new)f)(ctx); }
static void call_SSL_free(void *f, SSL *ssl) { ((fn_SSL_free)f)(ssl); }
static int call_SSL_set_fd(void *f, SSL *ssl, int fd) { return ((fn_SSL_set_fd)f)(ssl, fd); }
static int call_SSL_set_tlsext_host_name(void *f, SSL *ssl, const char *host) {
	return ((fn_SSL_set_tlsext_host_name)f)(ssl, host);
}
static int call_SSL_connect(void *f, SSL *ssl) { return ((fn_SSL_connect)f)(ssl); }
static int call_SSL_read(void *f, SSL *ssl, void *buf, int n) {
	return ((fn_SSL_read)f)(ssl, buf, n);
}
static int call_SSL_write(void *f, SSL *ssl, const void *buf, int n) {
	return ((fn_SSL_write)f)(ssl, buf, n);
}
static int call_SSL_shutdown(void *f, SSL *ssl) { return ((fn_SSL_shutdown)f)(ssl); }
static int call_SSL_get_error(void *f, const SSL *ssl, int ret) {
	return ((fn_SSL_get_error)f)(ssl, ret);
}
static int call_OPENSSL_init_ssl(void *f, unsigned long long opts) {
	return ((fn_OPENSSL_init_ssl)f)(opts, 0);
}
*/
import "C"

import (
	"context"
	"io"
	"net"
	"sync"
	"unsafe"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// libNames is the ordered candidate list of shared library filenames
// tried at runtime: no build-time link against any specific TLS
// library, only best-effort resolution against whatever the OS loader's
// default search path turns up.
var libNames = []string{
	"libssl.so.3", "libssl.so.1.1", "libssl.so",
	"libcrypto.so.3", "libcrypto.so.1.1", "libcrypto.so",
}

var requiredSymbols = []string{
	"TLS_client_method", "SSL_CTX_new", "SSL_CTX_free",
	"SSL_CTX_set_default_verify_paths", "SSL_new", "SSL_free",
	"SSL_set_fd", "SSL_set_tlsext_host_name", "SSL_connect",
	"SSL_read", "SSL_write", "SSL_shutdown", "SSL_get_error",
}

type dynSSL struct {
	handles []unsafe.Pointer
	sym     map[string]unsafe.Pointer
}

type opensslBackend struct {
	once     sync.Once
	dyn      *dynSSL
	loaded   bool
	loadErr  string
	ctx      unsafe.Pointer // *SSL_CTX
}

func newBackend() Backend { return &opensslBackend{} }

func (b *opensslBackend) ensureLoaded() {
	b.once.Do(func() {
		dyn := &dynSSL{sym: make(map[string]unsafe.Pointer)}

		for _, name := range libNames {
			cname := C.CString(name)
			h := C.xdlopen(cname)
			C.free(unsafe.Pointer(cname))
			if h != nil {
				dyn.handles = append(dyn.handles, h)
			}
		}
		if len(dyn.handles) == 0 {
			b.loadErr = "no OpenSSL shared library found in loader search path"
			return
		}

		for _, sym := range requiredSymbols {
			csym := C.CString(sym)
			var found unsafe.Pointer
			for _, h := range dyn.handles {
				if p := C.xdlsym(h, csym); p != nil {
					found = p
					break
				}
			}
			C.free(unsafe.Pointer(csym))
			if found == nil {
				b.loadErr = "missing required symbol " + sym
				return
			}
			dyn.sym[sym] = found
		}

		if initFn, ok := dyn.sym["OPENSSL_init_ssl"]; ok {
			C.call_OPENSSL_init_ssl(initFn, 0)
		}

		method := C.call_TLS_client_method(dyn.sym["TLS_client_method"])
		ctx := C.call_SSL_CTX_new(dyn.sym["SSL_CTX_new"], method)
		if ctx == nil {
			b.loadErr = "SSL_CTX_new failed"
			return
		}
		C.call_SSL_CTX_set_default_verify_paths(dyn.sym["SSL_CTX_set_default_verify_paths"], ctx)

		b.dyn = dyn
		b.ctx = unsafe.Pointer(ctx)
		b.loaded = true
	})
}

func (b *opensslBackend) Available() (bool, string) {
	b.ensureLoaded()
	return b.loaded, b.loadErr
}

func (b *opensslBackend) shutdown() {
	if b.loaded && b.ctx != nil {
		C.call_SSL_CTX_free(b.dyn.sym["SSL_CTX_free"], b.ctx)
	}
	b.once = sync.Once{}
	b.dyn = nil
	b.ctx = nil
	b.loaded = false
	b.loadErr = ""
}

func (b *opensslBackend) Handshake(ctx context.Context, raw net.Conn, host string, clk clock.Clock) (net.Conn, error) {
	b.ensureLoaded()
	if !b.loaded {
		return nil, errors.Errorf("TLS not available (%s)", b.loadErr)
	}

	tcp, ok := raw.(*net.TCPConn)
	if !ok {
		return nil, errors.New("openssl backend requires a TCP connection")
	}
	file, err := tcp.File()
	if err != nil {
		return nil, errors.Wrap(err, "extracting file descriptor for OpenSSL")
	}
	defer file.Close()
	fd := C.int(file.Fd())

	ssl := C.call_SSL_new(b.dyn.sym["SSL_new"], (*C.SSL_CTX)(b.ctx))
	if ssl == nil {
		return nil, errors.New("SSL_new failed")
	}
	if rc := C.call_SSL_set_fd(b.dyn.sym["SSL_set_fd"], ssl, fd); rc != 1 {
		return nil, errors.New("SSL_set_fd failed")
	}

	chost := C.CString(host)
	defer C.free(unsafe.Pointer(chost))
	C.call_SSL_set_tlsext_host_name(b.dyn.sym["SSL_set_tlsext_host_name"], ssl, chost)

	if rc := C.call_SSL_connect(b.dyn.sym["SSL_connect"], ssl); rc != 1 {
		code := C.call_SSL_get_error(b.dyn.sym["SSL_get_error"], ssl, rc)
		return nil, errors.Errorf("TLS handshake failed: %d", int(code))
	}

	return &opensslConn{TCPConn: tcp, dyn: b.dyn, ssl: ssl}, nil
}

// opensslConn adapts a raw SSL* to net.Conn by delegating blocking
// read/write/shutdown to the dynamically resolved OpenSSL entry points.
type opensslConn struct {
	*net.TCPConn
	dyn *dynSSL
	ssl unsafe.Pointer
}

func (c *opensslConn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := C.call_SSL_read(c.dyn.sym["SSL_read"], c.ssl, unsafe.Pointer(&p[0]), C.int(len(p)))
	if n == 0 {
		return 0, io.EOF
	}
	if n < 0 {
		return 0, errors.Errorf("SSL_read failed: %d", int(n))
	}
	return int(n), nil
}

func (c *opensslConn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := C.call_SSL_write(c.dyn.sym["SSL_write"], c.ssl, unsafe.Pointer(&p[0]), C.int(len(p)))
	if n <= 0 {
		return 0, errors.Errorf("SSL_write failed: %d", int(n))
	}
	return int(n), nil
}

func (c *opensslConn) Close() error {
	C.call_SSL_shutdown(c.dyn.sym["SSL_shutdown"], c.ssl)
	return c.TCPConn.Close()
}
