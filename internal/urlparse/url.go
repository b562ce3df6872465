package urlparse

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxHostLen is the maximum accepted host length in bytes.
	MaxHostLen = 255
	// MaxPortLen is the maximum accepted port string length in bytes.
	MaxPortLen = 7
	// MaxPathLen is the maximum accepted path length in bytes.
	MaxPathLen = 2047
)

// URL is the parsed result of a request target.
type URL struct {
	HTTPS bool
	Host  string
	Port  string
	Path  string
}

// ErrInvalidURL is the sentinel matched via errors.Is against any
// invalidURLError, which formats an "invalid URL: <url>" message.
var ErrInvalidURL = errors.New("invalid URL")

type invalidURLError struct{ raw string }

func (e *invalidURLError) Error() string { return "invalid URL: " + e.raw }
func (e *invalidURLError) Is(target error) bool { return target == ErrInvalidURL }

func invalidURL(raw string) error { return &invalidURLError{raw: raw} }

// Parse splits raw into a scheme flag, host, port and path.
//
// A ':' before the first '/' following the scheme denotes a port; once
// past that '/' any further ':' is just part of the path. Missing path
// defaults to "/"; missing port defaults to 80 (http) or 443 (https).
func Parse(raw string) (URL, error) {
	var u URL

	rest, ok := trimScheme(raw, "https://")
	if ok {
		u.HTTPS = true
	} else if rest, ok = trimScheme(raw, "http://"); ok {
		u.HTTPS = false
	} else {
		return URL{}, invalidURL(raw)
	}

	authority := rest
	path := "/"
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		authority = rest[:idx]
		path = rest[idx:]
	}

	if authority == "" {
		return URL{}, invalidURL(raw)
	}

	host := authority
	port := ""
	if idx := strings.IndexByte(authority, ':'); idx >= 0 {
		host = authority[:idx]
		port = authority[idx+1:]
	}

	if host == "" {
		return URL{}, invalidURL(raw)
	}
	if len(host) > MaxHostLen {
		return URL{}, invalidURL(raw)
	}
	if len(port) > MaxPortLen {
		return URL{}, invalidURL(raw)
	}
	if len(path) > MaxPathLen {
		path = path[:MaxPathLen]
	}

	if port == "" {
		port = DefaultPort(u.HTTPS)
	}

	u.Host = host
	u.Port = port
	u.Path = path
	return u, nil
}

// DefaultPort returns "443" for https and "80" for http.
func DefaultPort(https bool) string {
	if https {
		return "443"
	}
	return "80"
}

// IsDefaultPort reports whether port is the default port for the scheme,
// used when rewriting a Location header's Host without an explicit port.
func IsDefaultPort(https bool, port string) bool {
	return port == DefaultPort(https)
}

func trimScheme(raw, scheme string) (string, bool) {
	if len(raw) < len(scheme) || raw[:len(scheme)] != scheme {
		return "", false
	}
	return raw[len(scheme):], true
}
