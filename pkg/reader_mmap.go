package dirhash

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapReader maps a file read-only and yields the whole mapping as a single
// chunk, the MemoryMapped strategy from §4.4.
type mmapReader struct {
	f    *os.File
	data []byte
	sent bool
}

func openMmapReader(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIoError(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, NewIoError(path, err)
	}

	size := info.Size()
	if size == 0 {
		f.Close()
		return &mmapReader{sent: true}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &PathError{Path: path, Kind: "reader", Err: err}
	}

	return &mmapReader{f: f, data: data}, nil
}

func (r *mmapReader) NextChunk() ([]byte, bool, error) {
	if r.sent || len(r.data) == 0 {
		r.sent = true
		return nil, false, nil
	}
	r.sent = true
	return r.data, true, nil
}

func (r *mmapReader) Close() error {
	var err error
	if r.data != nil {
		err = unix.Munmap(r.data)
		r.data = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
