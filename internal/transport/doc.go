// Package transport dials the TCP connection a request runs over and,
// for https URLs, wraps it in one of two mutually exclusive TLS
// backends selected at build time: the default "native" backend
// (tls_native.go, backed by crypto/tls) or the runtime-loaded "openssl"
// backend (tls_openssl.go, built only with the httpreq_openssl tag).
package transport
