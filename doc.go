// Package httpreq is a lightweight, embeddable HTTP/1.1 client with
// opportunistic HTTPS. It is built for host applications that need to
// issue network requests without blocking their main loop: Submit
// spawns one goroutine per request and returns a Handle that can be
// polled or joined.
//
// The client has no hard link-time dependency on a TLS library: the
// default build uses the platform's native crypto/tls, while a
// runtime-loaded OpenSSL backend is selected with the httpreq_openssl
// build tag. Plain HTTP requests never touch either backend.
package httpreq
