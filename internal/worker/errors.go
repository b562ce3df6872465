package worker

import "github.com/pkg/errors"

// Sentinel errors for the fixed-text failure kinds a caller can match
// on by exact message. Each is surfaced through Handle.Result() with no
// call-site context appended, so string-matching integrations keep
// working across internal refactors of how the failure was detected.
var (
	ErrFailedToSendRequest     = errors.New("failed to send request")
	ErrFailedToReadStatusLine  = errors.New("failed to read status line")
	ErrFailedToReadHeaders     = errors.New("failed to read headers")
	ErrFailedToReadBody        = errors.New("failed to read body")
	ErrFailedToReadChunkedBody = errors.New("failed to read chunked body")
	ErrFailedToOpenOutputFile  = errors.New("failed to open output file")
	ErrFailedToWriteOutputFile = errors.New("failed to write output file")
)

// contractErr pairs one of the sentinels above with the underlying
// cause. Error() returns the sentinel's fixed text (plus detail, for
// the one kind that carries a path) and never the cause, so the message
// a caller sees is always the exact contract string; the cause is still
// reachable via Cause/Unwrap for anyone who wants to log it.
type contractErr struct {
	kind   error
	detail string
	cause  error
}

func withKind(kind, cause error) error {
	return &contractErr{kind: kind, cause: cause}
}

func withKindDetail(kind, cause error, detail string) error {
	return &contractErr{kind: kind, detail: detail, cause: cause}
}

func (e *contractErr) Error() string {
	if e.detail == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + e.detail
}

func (e *contractErr) Cause() error         { return e.cause }
func (e *contractErr) Unwrap() error        { return e.cause }
func (e *contractErr) Is(target error) bool { return target == e.kind }
