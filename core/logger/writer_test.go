package logger

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncWriterFansOut(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	w := newAsyncWriter([]io.Writer{a, nil, b}, 0)

	require.NoError(t, w.Write([]byte("one\n")))
	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Write([]byte("two\n")))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	assert.Equal(t, "one\ntwo\n", a.String())
	assert.Equal(t, a.String(), b.String())
}

func TestAsyncWriterDropsOnFullQueue(t *testing.T) {
	buf := &bytes.Buffer{}
	// no loop goroutine: the queue never drains
	w := &asyncWriter{
		queue: make(chan []byte, 1),
		sinks: []*bufio.Writer{bufio.NewWriter(buf)},
	}

	require.NoError(t, w.Write([]byte("kept\n")))
	require.NoError(t, w.Write([]byte("lost\n")))
	assert.Equal(t, uint64(1), w.Dropped())

	w.reportDropped()
	assert.Contains(t, buf.String(), "event=lines.dropped count=1")
	assert.Zero(t, w.Dropped())
}
