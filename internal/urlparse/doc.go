// Package urlparse splits an http(s) URL string into scheme, host, port
// and path.
//
// It is deliberately narrower than [net/url]: no percent-decoding, no
// userinfo, no fragment stripping, no query handling. The path is passed
// through verbatim after the authority is split off.
package urlparse
