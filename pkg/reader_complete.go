package dirhash

import "os"

// completeReader reads a whole file and yields it as a single chunk, the
// Complete strategy from §4.4.
type completeReader struct {
	path string
	data []byte
	sent bool
}

func openCompleteReader(path string) (Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIoError(path, err)
	}
	return &completeReader{path: path, data: data}, nil
}

func (r *completeReader) NextChunk() ([]byte, bool, error) {
	if r.sent || len(r.data) == 0 {
		r.sent = true
		return nil, false, nil
	}
	r.sent = true
	return r.data, true, nil
}

func (r *completeReader) Close() error {
	r.data = nil
	return nil
}
