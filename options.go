package httpreq

import (
	"time"

	"httpreq/internal/worker"
)

// DefaultTimeout is applied when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Header is one ordered request header. Order is preserved and callers
// are authoritative: no de-duplication is performed.
type Header struct {
	Name  string
	Value string
}

// Options describes a request to Submit. URL is the only required
// field; everything else takes the documented default when left zero.
type Options struct {
	URL     string
	Method  string // default "GET"
	Headers []Header
	Body    []byte
	Timeout time.Duration // default DefaultTimeout; <0 disables the deadline

	// OutputPath streams the response body to a file instead of
	// buffering it in memory. When it names an existing non-empty file
	// and Override is false, the client attempts a Range-resumed
	// download starting at the file's current size.
	OutputPath string
	Override   bool
}

func (o Options) toWorkerOptions() worker.Options {
	timeout := o.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		timeout = 0
	}

	headers := make([]worker.Header, len(o.Headers))
	for i, h := range o.Headers {
		headers[i] = worker.Header{Name: h.Name, Value: h.Value}
	}

	return worker.Options{
		URL:        o.URL,
		Method:     o.Method,
		Body:       o.Body,
		Headers:    headers,
		Timeout:    timeout,
		OutputPath: o.OutputPath,
		Override:   o.Override,
	}
}
