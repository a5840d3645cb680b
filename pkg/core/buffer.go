package core

import (
	"io"
)

// ChunkBuffer is the transfer buffer shared by every file read and write of
// one archive or extract run. It grows to the largest size requested and is
// never shrunk. A ChunkBuffer is not safe for concurrent use.
type ChunkBuffer struct {
	b []byte
}

// Get returns a slice of exactly size bytes backed by the shared buffer.
func (c *ChunkBuffer) Get(size int) []byte {
	if size <= 0 {
		size = DefaultBufferSize
	}
	if len(c.b) < size {
		c.b = make([]byte, size)
	}
	return c.b[:size]
}

// Cap reports the current capacity of the underlying buffer.
func (c *ChunkBuffer) Cap() int {
	return len(c.b)
}

// copyChunks streams src into dst one buffer at a time. Unlike io.CopyBuffer
// it never bypasses buf through ReaderFrom or WriterTo.
func copyChunks(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
