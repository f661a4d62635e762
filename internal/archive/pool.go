package archive

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// ---------------------------------------------------------------
// Buffers and gzip writers are reused across archives. A CLI run
// encodes once, but the library can be driven in a loop by harnesses.
// ---------------------------------------------------------------

var (
	// BufferPool holds encode output buffers (initial cap 64KB).
	BufferPool = sync.Pool{
		New: func() any {
			return bytes.NewBuffer(make([]byte, 0, 64*1024))
		},
	}

	// GzipPool holds BestSpeed gzip writers.
	GzipPool = sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
			return w
		},
	}
)

// MaxBufferCap bounds the buffers returned to BufferPool.
const MaxBufferCap = 1 * 1024 * 1024 // 1MB

// PutBuffer returns buf to the pool unless it grew past MaxBufferCap.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= MaxBufferCap {
		buf.Reset()
		BufferPool.Put(buf)
	}
}
