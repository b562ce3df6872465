package framing_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpreq/internal/framing"
)

func TestCopyChunked(t *testing.T) {
	src := strings.NewReader("5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")
	var out bytes.Buffer
	var total int64

	err := framing.CopyChunked(src, &out, func(n int64) { total += n })
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.String())
	assert.Equal(t, int64(11), total)
}

func TestCopyChunked_WithTrailer(t *testing.T) {
	src := strings.NewReader("3\r\nabc\r\n0\r\nX-Trailer: v\r\n\r\n")
	var out bytes.Buffer

	err := framing.CopyChunked(src, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.String())
}

func TestCopyChunked_MissingDelimiterFails(t *testing.T) {
	src := strings.NewReader("3\r\nabcXX0\r\n\r\n")
	var out bytes.Buffer
	err := framing.CopyChunked(src, &out, nil)
	assert.Error(t, err)
}
