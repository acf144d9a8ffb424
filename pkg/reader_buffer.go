package dirhash

import (
	"fmt"
	"io"
	"os"
)

// bufferReader reads fixed-size chunks of a file until EOF, the Buffer
// strategy from §4.4.
type bufferReader struct {
	f    *os.File
	buf  []byte
	done bool
}

func openBufferReader(path string, bufferSize int) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIoError(path, err)
	}
	return &bufferReader{f: f, buf: make([]byte, bufferSize)}, nil
}

func (r *bufferReader) NextChunk() ([]byte, bool, error) {
	if r.done {
		return nil, false, nil
	}
	n, err := r.f.Read(r.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, r.buf[:n])
		if err == io.EOF {
			r.done = true
		} else if err != nil {
			return nil, false, NewIoError(r.f.Name(), err)
		}
		return chunk, true, nil
	}
	if err == io.EOF || err == nil {
		r.done = true
		return nil, false, nil
	}
	return nil, false, NewIoError(r.f.Name(), err)
}

func (r *bufferReader) Close() error {
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("dirhash: closing %s: %w", r.f.Name(), err)
	}
	return nil
}
