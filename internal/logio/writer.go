package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that re-emits each complete line through Logf.
// It is typically used to route log output into testing.T.Logf.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p, then logs any completed lines.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// Sync logs any partial final line.
func (lw *Writer) Sync() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

// Close calls Sync.
func (lw *Writer) Close() error {
	return lw.Sync()
}

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		line := lw.buf.Bytes()
		i := bytes.IndexByte(line, '\n')
		switch {
		case i >= 0:
			lw.Logf("%s", bytes.TrimSuffix(lw.buf.Next(i), []byte{'\r'}))
			lw.buf.Next(1)
		case all:
			lw.Logf("%s", lw.buf.Next(len(line)))
		default:
			return
		}
	}
}
