package framing

import (
	"io"

	"github.com/pkg/errors"
)

// maxExactChunk bounds a single underlying Read call issued by ReadExact.
const maxExactChunk = 64 * 1024

// ErrUnexpectedEOF is wrapped into a phase-specific message ("failed to
// read status line" / "failed to read headers" / "failed to read body")
// by the caller, since the exact wording depends on which phase of the
// state machine was reading.
var ErrUnexpectedEOF = errors.New("unexpected end of stream")

// ReadLine reads from r one byte at a time until it observes CRLF, which
// is stripped from the result. A lone CR without a following LF is kept
// as data. Reaching EOF before a terminating CRLF is an error.
func ReadLine(r io.Reader) ([]byte, error) {
	var line []byte
	var one [1]byte

	for {
		n, err := r.Read(one[:])
		if n == 1 {
			c := one[0]
			if c == '\n' && len(line) > 0 && line[len(line)-1] == '\r' {
				return line[:len(line)-1], nil
			}
			line = append(line, c)
		}
		if err != nil {
			if err == io.EOF {
				return nil, errors.Wrap(ErrUnexpectedEOF, "reading line")
			}
			return nil, errors.Wrap(err, "reading line")
		}
	}
}

// ReadExact reads exactly n bytes from r into a freshly allocated slice,
// issuing underlying reads no larger than 64 KiB at a time.
func ReadExact(r io.Reader, n int64) ([]byte, error) {
	out := make([]byte, n)
	if err := ReadExactInto(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadExactInto fills dst completely from r, chunked at 64 KiB.
func ReadExactInto(r io.Reader, dst []byte) error {
	var read int64
	total := int64(len(dst))
	for read < total {
		want := total - read
		if want > maxExactChunk {
			want = maxExactChunk
		}
		n, err := r.Read(dst[read : read+want])
		read += int64(n)
		if err != nil {
			if err == io.EOF && read < total {
				return errors.Wrap(ErrUnexpectedEOF, "reading exact bytes")
			}
			if err != io.EOF {
				return errors.Wrap(err, "reading exact bytes")
			}
		}
	}
	return nil
}

// ParseHexUint64 parses a hexadecimal chunk-size prefix, stopping at the
// first byte that is not a hex digit. It performs no strict validation
// of what follows.
func ParseHexUint64(s []byte) uint64 {
	var v uint64
	for _, c := range s {
		d, ok := hexDigit(c)
		if !ok {
			break
		}
		v = v<<4 | uint64(d)
	}
	return v
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
