package framing_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpreq/internal/framing"
)

func TestReadLine_StripsCRLF(t *testing.T) {
	r := strings.NewReader("hello\r\nworld")
	line, err := framing.ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), line)
}

func TestReadLine_KeepsLoneCR(t *testing.T) {
	r := strings.NewReader("a\rb\r\n")
	line, err := framing.ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("a\rb"), line)
}

func TestReadLine_EOFMidLineFails(t *testing.T) {
	r := strings.NewReader("no newline here")
	_, err := framing.ReadLine(r)
	assert.Error(t, err)
}

func TestReadExact(t *testing.T) {
	r := bytes.NewReader([]byte("0123456789"))
	got, err := framing.ReadExact(r, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("01234"), got)
}

func TestReadExact_ShortReadFails(t *testing.T) {
	r := bytes.NewReader([]byte("abc"))
	_, err := framing.ReadExact(r, 10)
	assert.Error(t, err)
}

func TestParseHexUint64(t *testing.T) {
	assert.Equal(t, uint64(0x5), framing.ParseHexUint64([]byte("5")))
	assert.Equal(t, uint64(0xFF), framing.ParseHexUint64([]byte("ff")))
	assert.Equal(t, uint64(0x6), framing.ParseHexUint64([]byte("6\r\n")))
	assert.Equal(t, uint64(0), framing.ParseHexUint64([]byte("zzz")))
}
