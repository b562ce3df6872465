package worker

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"httpreq/internal/buffer"
	"httpreq/internal/framing"
	"httpreq/internal/transport"
	"httpreq/internal/urlparse"
)

// UserAgent is the fixed product token sent on every request.
const UserAgent = "httpreq/1.0"

// MaxRedirects bounds the redirect loop.
const MaxRedirects = 10

// Run drives the full HTTP/1.1 state machine for rec. It clears outputs,
// resets counters, and terminates rec in either StateDone or StateError.
// Run does not recover panics itself: the root package's Submit wraps
// Run in a recover guard that converts a panic into an error result.
func Run(ctx context.Context, clk clock.Clock, rec *Record) {
	rec.Status = 0
	rec.Body = nil
	rec.HeadersRaw = nil
	rec.HeadersMap = nil
	rec.Err = nil
	rec.resetProgress()

	if rec.Opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rec.Opts.Timeout)
		defer cancel()
	}

	currentURL := rec.Opts.URL
	method := rec.Opts.Method
	if method == "" {
		method = "GET"
	}
	body := rec.Opts.Body

	var resumeOffset int64
	firstIteration := true
	redirects := 0

	for {
		parsed, err := urlparse.Parse(currentURL)
		if err != nil {
			rec.finishError(err)
			return
		}

		if firstIteration && rec.Opts.OutputPath != "" && !rec.Opts.Override {
			if fi, statErr := os.Stat(rec.Opts.OutputPath); statErr == nil && fi.Size() > 0 {
				resumeOffset = fi.Size()
			}
		}
		firstIteration = false

		conn, err := transport.Dial(ctx, clk, parsed.HTTPS, parsed.Host, parsed.Port)
		if err != nil {
			rec.finishError(err)
			return
		}

		if deadline, ok := ctx.Deadline(); ok {
			// context.WithTimeout only bounds the calls that check it
			// explicitly (Dial does); the raw send/receive loops below
			// talk to the socket directly, so the timeout is enforced by
			// pushing it onto the connection itself.
			if err := conn.SetDeadline(deadline); err != nil {
				conn.Close()
				rec.finishError(errors.Wrap(err, "setting request deadline"))
				return
			}
		}

		status, headerScan, headersRaw, headersMap, err := sendAndReadHeaders(conn, parsed, method, body, resumeOffset, rec.Opts.Headers, rec)
		if err != nil {
			conn.Close()
			rec.HeadersRaw = headersRaw
			rec.HeadersMap = headersMap
			rec.finishError(err)
			return
		}

		if isRedirectStatus(status) && headerScan.location != "" {
			conn.Close()

			if redirects >= MaxRedirects {
				rec.HeadersRaw = headersRaw
				rec.HeadersMap = headersMap
				rec.finishError(errors.Errorf("too many redirects (max %d)", MaxRedirects))
				return
			}
			redirects++

			currentURL = resolveLocation(parsed, headerScan.location)
			rec.Body = nil
			rec.HeadersRaw = nil
			rec.HeadersMap = nil
			rec.resetProgress()
			resumeOffset = 0

			if status == 303 {
				method = "GET"
				body = nil
			}
			continue
		}

		// Not a redirect (or redirect without Location): consume the
		// body under whichever framing the headers declared, then
		// finish.
		err = consumeBody(conn, status, headerScan, resumeOffset, rec)
		conn.Close()
		if err != nil {
			rec.finishError(err)
			return
		}

		rec.Status = status
		rec.HeadersRaw = headersRaw
		rec.HeadersMap = headersMap
		rec.finishDone()
		return
	}
}

type headerScanResult struct {
	contentLength int64 // -1 if absent
	chunked       bool
	location      string
}

// sendAndReadHeaders assembles and sends the request, then reads the
// status line and header block.
func sendAndReadHeaders(
	conn net.Conn,
	u urlparse.URL,
	method string,
	body []byte,
	resumeOffset int64,
	headers []Header,
	rec *Record,
) (status int, scan headerScanResult, headersRaw []byte, headersMap map[string]string, err error) {
	scan.contentLength = -1

	req := buffer.New()
	req.AppendString(method)
	req.AppendByte(' ')
	req.AppendString(u.Path)
	req.AppendString(" HTTP/1.1\r\n")
	req.AppendString("Host: ")
	req.AppendString(u.Host)
	req.AppendString("\r\n")
	req.AppendString("User-Agent: ")
	req.AppendString(UserAgent)
	req.AppendString("\r\n")
	req.AppendString("Connection: close\r\n")

	for _, h := range headers {
		req.AppendString(h.Name)
		req.AppendString(": ")
		req.AppendString(h.Value)
		req.AppendString("\r\n")
	}

	if resumeOffset > 0 {
		req.AppendString("Range: bytes=")
		req.AppendString(strconv.FormatInt(resumeOffset, 10))
		req.AppendString("-\r\n")
	}

	if len(body) > 0 {
		req.AppendString("Content-Length: ")
		req.AppendString(strconv.Itoa(len(body)))
		req.AppendString("\r\n")
	}

	req.AppendString("\r\n")
	if len(body) > 0 {
		req.Append(body)
	}

	if err := sendAll(conn, req.Bytes(), rec); err != nil {
		return 0, scan, nil, nil, withKind(ErrFailedToSendRequest, err)
	}

	statusLine, err := framing.ReadLine(conn)
	if err != nil {
		return 0, scan, nil, nil, withKind(ErrFailedToReadStatusLine, err)
	}
	status, err = parseStatusLine(statusLine)
	if err != nil {
		return 0, scan, nil, nil, withKind(ErrFailedToReadStatusLine, err)
	}

	headersBuf := buffer.New()
	headersMap = make(map[string]string)
	for {
		line, err := framing.ReadLine(conn)
		if err != nil {
			return 0, scan, headersBuf.Bytes(), headersMap, withKind(ErrFailedToReadHeaders, err)
		}
		if len(line) == 0 {
			break
		}
		headersBuf.Append(line)
		headersBuf.AppendByte('\n')

		applyHeaderScan(&scan, line)
		addHeaderToMap(headersMap, line)
	}

	return status, scan, headersBuf.Bytes(), headersMap, nil
}

// addHeaderToMap records name (lowercased) -> value. A repeated header
// name overwrites the previous value; the raw buffer is authoritative
// for multi-valued headers.
func addHeaderToMap(m map[string]string, line []byte) {
	name, value, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return
	}
	key := strings.ToLower(string(bytes.TrimSpace(name)))
	m[key] = string(bytes.TrimSpace(value))
}

func sendAll(conn net.Conn, buf []byte, rec *Record) error {
	total := 0
	for total < len(buf) {
		n, err := conn.Write(buf[total:])
		total += n
		if n > 0 {
			rec.addUploaded(int64(n))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parseStatusLine(line []byte) (int, error) {
	fields := bytes.SplitN(line, []byte(" "), 3)
	if len(fields) < 2 {
		return 0, errors.New("malformed status line")
	}
	code, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0, errors.Wrap(err, "malformed status code")
	}
	return code, nil
}

func applyHeaderScan(scan *headerScanResult, line []byte) {
	name, value, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return
	}
	value = bytes.TrimLeft(value, " \t")

	switch {
	case len(name) == 14 && strings.EqualFold(string(name), "Content-Length"):
		if n, err := strconv.ParseInt(string(value), 10, 64); err == nil {
			scan.contentLength = n
		}
	case len(name) == 17 && strings.EqualFold(string(name), "Transfer-Encoding"):
		if bytes.Contains(bytes.ToLower(value), []byte("chunked")) {
			scan.chunked = true
		}
	case len(name) == 8 && strings.EqualFold(string(name), "Location"):
		loc := string(value)
		if len(loc) > 2047 {
			loc = loc[:2047]
		}
		scan.location = loc
	}
}

// consumeBody opens the output file (if any), then reads the body under
// whichever framing headerScan declares.
func consumeBody(conn net.Conn, status int, scan headerScanResult, resumeOffset int64, rec *Record) error {
	var file *os.File
	var err error

	resuming := resumeOffset > 0 && status == 206
	if rec.Opts.OutputPath != "" {
		if resuming {
			file, err = os.OpenFile(rec.Opts.OutputPath, os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return withKindDetail(ErrFailedToOpenOutputFile, err, ": "+rec.Opts.OutputPath)
			}
			rec.addDownloaded(resumeOffset)
			if scan.contentLength >= 0 {
				rec.setTotal(scan.contentLength + resumeOffset)
			}
		} else {
			file, err = os.OpenFile(rec.Opts.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return withKindDetail(ErrFailedToOpenOutputFile, err, ": "+rec.Opts.OutputPath)
			}
			if scan.contentLength >= 0 {
				rec.setTotal(scan.contentLength)
			}
		}
		defer file.Close()
	} else if scan.contentLength >= 0 {
		rec.setTotal(scan.contentLength)
	}

	var sink interface {
		Write([]byte) (int, error)
	}
	var mem *buffer.Buffer
	if file != nil {
		sink = file
	} else {
		mem = buffer.New()
		sink = mem
	}

	switch {
	case scan.chunked:
		if err := framing.CopyChunked(conn, sink, func(n int64) { rec.addDownloaded(n) }); err != nil {
			return withKind(ErrFailedToReadChunkedBody, err)
		}
	case scan.contentLength >= 0:
		if err := copyExactN(conn, sink, scan.contentLength, rec); err != nil {
			return withKind(ErrFailedToReadBody, err)
		}
	default:
		if err := copyUntilEOF(conn, sink, rec); err != nil {
			return withKind(ErrFailedToReadBody, err)
		}
	}

	if file != nil {
		if err := file.Sync(); err != nil {
			return withKind(ErrFailedToWriteOutputFile, err)
		}
	} else {
		rec.Body = mem.Bytes()
	}

	return nil
}

func copyExactN(conn net.Conn, w interface{ Write([]byte) (int, error) }, n int64, rec *Record) error {
	const chunk = 64 * 1024
	buf := make([]byte, chunk)
	var remaining = n
	for remaining > 0 {
		want := remaining
		if want > chunk {
			want = chunk
		}
		if err := framing.ReadExactInto(conn, buf[:want]); err != nil {
			return err
		}
		if _, err := w.Write(buf[:want]); err != nil {
			return err
		}
		rec.addDownloaded(want)
		remaining -= want
	}
	return nil
}

func copyUntilEOF(conn net.Conn, w interface{ Write([]byte) (int, error) }, rec *Record) error {
	buf := make([]byte, 64*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			rec.addDownloaded(int64(n))
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
