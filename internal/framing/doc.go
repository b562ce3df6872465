// Package framing implements the low-level read primitives the HTTP/1.1
// worker drives directly against a connection: CRLF line reads, exact
// byte-count reads, hex chunk-length parsing, and the chunked
// transfer-encoding body reader built on top of them.
package framing
