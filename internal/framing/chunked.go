package framing

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// CopyChunked reads an RFC 7230 §4.1 chunked body from r and writes each
// chunk's data to w, invoking onBytes after each chunk is fully written
// so the caller can advance a downloaded-bytes counter. It stops after
// consuming the zero-length terminating chunk and its (possibly empty)
// trailer section.
func CopyChunked(r io.Reader, w io.Writer, onBytes func(n int64)) error {
	for {
		sizeLine, err := ReadLine(r)
		if err != nil {
			return errors.Wrap(err, "reading chunk size line")
		}

		// A chunk-size line may carry chunk-extensions after ';'; only
		// the hex prefix before it matters here.
		sizeLine, _, _ = cutFirst(sizeLine, ';')
		size := ParseHexUint64(bytes.TrimSpace(sizeLine))

		if size == 0 {
			if err := drainTrailer(r); err != nil {
				return errors.Wrap(err, "reading chunk trailer")
			}
			return nil
		}

		if err := copyExact(r, w, int64(size)); err != nil {
			return errors.Wrap(err, "reading chunk data")
		}
		if onBytes != nil {
			onBytes(int64(size))
		}

		crlf, err := ReadExact(r, 2)
		if err != nil {
			return errors.Wrap(err, "reading chunk delimiter")
		}
		if crlf[0] != '\r' || crlf[1] != '\n' {
			return errors.New("chunked body: missing CRLF after chunk data")
		}
	}
}

// drainTrailer reads trailer field lines (possibly zero) up to and
// including the terminating empty line.
func drainTrailer(r io.Reader) error {
	for {
		line, err := ReadLine(r)
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
	}
}

func copyExact(r io.Reader, w io.Writer, n int64) error {
	const bufSize = 64 * 1024
	buf := make([]byte, bufSize)
	var remaining = n
	for remaining > 0 {
		want := remaining
		if want > bufSize {
			want = bufSize
		}
		if err := ReadExactInto(r, buf[:want]); err != nil {
			return err
		}
		if _, err := w.Write(buf[:want]); err != nil {
			return errors.Wrap(err, "writing chunk data")
		}
		remaining -= want
	}
	return nil
}

func cutFirst(b []byte, sep byte) (before, after []byte, found bool) {
	if idx := bytes.IndexByte(b, sep); idx >= 0 {
		return b[:idx], b[idx+1:], true
	}
	return b, nil, false
}
