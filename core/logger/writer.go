package logger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const (
	queueSize = 256
	// enqueueWait bounds how long a log call blocks on a full queue. Handlers
	// run under the update lock, so a stuck sink must not stall the bot.
	enqueueWait = 50 * time.Millisecond
)

// asyncWriter moves sink I/O off the calling goroutine. One loop goroutine
// owns the sinks; it writes whatever is queued as a batch and flushes once
// per batch. Lines that cannot be queued within enqueueWait are dropped and
// counted.
type asyncWriter struct {
	queue    chan []byte
	flushReq chan chan error
	done     chan struct{}
	stop     sync.Once

	sinks   []*bufio.Writer
	dropped atomic.Uint64

	errMu    sync.Mutex
	firstErr error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = writerBufSize
	}
	w := &asyncWriter{
		queue:    make(chan []byte, queueSize),
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.reportDropped()
				w.fail(w.flush())
				return
			}
			w.writeBatch(line)
		case ack := <-w.flushReq:
			w.reportDropped()
			ack <- w.flush()
		}
	}
}

// writeBatch writes first plus everything already queued behind it, then
// flushes once.
func (w *asyncWriter) writeBatch(first []byte) {
	w.put(first)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				// run sees the closed queue next and does the final flush
				return
			}
			w.put(line)
		default:
			w.fail(w.flush())
			return
		}
	}
}

func (w *asyncWriter) put(line []byte) {
	for _, s := range w.sinks {
		if _, err := s.Write(line); err != nil {
			w.fail(err)
		}
	}
}

func (w *asyncWriter) flush() error {
	var errs []error
	for _, s := range w.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

// Write queues a copy of p. A sink error seen earlier is returned instead.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := append([]byte(nil), p...)
	select {
	case w.queue <- line:
		return nil
	default:
	}
	timer := time.NewTimer(enqueueWait)
	defer timer.Stop()
	select {
	case w.queue <- line:
	case <-timer.C:
		w.dropped.Add(1)
	}
	return nil
}

// Dropped returns the number of lines lost to a full queue.
func (w *asyncWriter) Dropped() uint64 {
	return w.dropped.Load()
}

// reportDropped writes a marker line for drops since the last report. Loop
// goroutine only.
func (w *asyncWriter) reportDropped() {
	n := w.dropped.Swap(0)
	if n == 0 {
		return
	}
	w.put([]byte(fmt.Sprintf("level=WARN component=logger event=lines.dropped count=%d\n", n)))
	w.fail(w.flush())
}

// Flush blocks until everything queued before the call reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.err(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	select {
	case w.flushReq <- ack:
		return <-ack
	case <-w.done:
		return w.err()
	}
}

// Close drains the queue, flushes and stops the loop.
func (w *asyncWriter) Close() error {
	w.stop.Do(func() { close(w.queue) })
	<-w.done
	return w.err()
}

func (w *asyncWriter) err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.firstErr
}

func (w *asyncWriter) fail(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.firstErr == nil {
		w.firstErr = err
	}
}
