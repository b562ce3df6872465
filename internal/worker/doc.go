// Package worker drives the HTTP/1.1 state machine for a single
// request: build request, connect, send, parse status and headers,
// consume the body under one of three framings, follow redirects, and
// resume a partial download to a file. It owns a *Record exclusively
// from submission until a terminal state is published.
package worker
