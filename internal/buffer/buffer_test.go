package buffer_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"httpreq/internal/buffer"
)

func TestBuffer_AppendGrows(t *testing.T) {
	b := buffer.New()
	for i := 0; i < 10000; i++ {
		b.AppendByte('a')
	}
	assert.Equal(t, 10000, b.Len())
	for _, c := range b.Bytes() {
		assert.Equal(t, byte('a'), c)
	}
}

func TestBuffer_AppendStringAndBytes(t *testing.T) {
	b := buffer.New()
	b.AppendString("hello ")
	b.Append([]byte("world"))
	assert.Equal(t, "hello world", b.String())
}

func TestBuffer_NullTerminatedDoesNotExtendLen(t *testing.T) {
	b := buffer.New()
	b.AppendString("hi")
	nt := b.NullTerminated()
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []byte("hi\x00"), nt)
}

func TestBuffer_Reset(t *testing.T) {
	b := buffer.New()
	b.AppendString("data")
	b.Reset()
	assert.Equal(t, 0, b.Len())
	b.AppendString("more")
	assert.Equal(t, "more", b.String())
}

func TestBuffer_Release(t *testing.T) {
	b := buffer.New()
	b.AppendString("data")
	b.Release()
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_WriteImplementsIOWriter(t *testing.T) {
	b := buffer.New()
	var w io.Writer = b
	n, err := w.Write([]byte("chunk"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "chunk", b.String())
}
