package worker

import (
	"sync/atomic"
	"time"
)

// State is the terminal-state atomic: transitions are monotonic,
// RUNNING -> {DONE, ERROR}, and terminal states are final.
type State int32

const (
	StateRunning State = iota
	StateDone
	StateError
)

// Header is one ordered name/value pair from the caller. Order is
// preserved and no de-duplication is performed; the caller is
// authoritative.
type Header struct {
	Name  string
	Value string
}

// Options are the caller-supplied, immutable-after-submission inputs.
type Options struct {
	URL        string
	Method     string
	Body       []byte
	Headers    []Header
	Timeout    time.Duration
	OutputPath string
	Override   bool
}

// Progress is a non-blocking snapshot of the three progress atomics.
type Progress struct {
	Uploaded   int64
	Downloaded int64
	Total      int64 // -1 == unknown
}

// Record is the request record owned exclusively by the worker from
// submission to destruction.
type Record struct {
	Opts Options

	state atomic.Int32

	uploaded   atomic.Int64
	downloaded atomic.Int64
	total      atomic.Int64

	// Outputs, written only by the worker. Safe to read from Result()
	// because Result() always joins the worker first (happens-before
	// via the errgroup.Wait release/acquire pair).
	Status      int
	Body        []byte // empty when streaming to file
	HeadersRaw  []byte
	HeadersMap  map[string]string
	Err         error
}

// NewRecord allocates a Record ready to be run by Run.
func NewRecord(opts Options) *Record {
	r := &Record{Opts: opts}
	r.total.Store(-1)
	return r
}

// State loads the terminal-state atomic with acquire ordering.
func (r *Record) State() State { return State(r.state.Load()) }

// Done reports whether the record has reached a terminal state.
func (r *Record) Done() bool { return r.State() != StateRunning }

// Progress takes a non-blocking, individually coherent snapshot.
func (r *Record) Progress() Progress {
	return Progress{
		Uploaded:   r.uploaded.Load(),
		Downloaded: r.downloaded.Load(),
		Total:      r.total.Load(),
	}
}

func (r *Record) resetProgress() {
	r.uploaded.Store(0)
	r.downloaded.Store(0)
	r.total.Store(-1)
}

func (r *Record) addUploaded(n int64)   { r.uploaded.Add(n) }
func (r *Record) addDownloaded(n int64) { r.downloaded.Add(n) }
func (r *Record) setTotal(n int64)      { r.total.Store(n) }

func (r *Record) finishDone() { r.state.Store(int32(StateDone)) }

func (r *Record) finishError(err error) {
	r.Err = err
	r.state.Store(int32(StateError))
}

// FailIfRunning transitions a still-RUNNING record to ERROR. It exists
// for callers driving Run in a supervised goroutine (see the root
// package's Submit) that need to report a recovered panic; Run itself
// never leaves a record RUNNING on return.
func (r *Record) FailIfRunning(err error) {
	if r.State() == StateRunning {
		r.finishError(err)
	}
}
