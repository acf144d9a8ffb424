package dirhash

import "fmt"

// Reader produces a lazy finite sequence of non-empty byte chunks for one
// file under a chosen ReadingStrategy. NextChunk returns ok=false once the
// stream is exhausted. Close releases the underlying file handle or mapping
// and is guaranteed to run on every exit path, including cancellation.
// Individual Reader instances must be safe to move across goroutines but are
// never shared between two goroutines concurrently.
type Reader interface {
	NextChunk() (chunk []byte, ok bool, err error)
	Close() error
}

// ReaderFactory opens a Reader for path under the given terminal strategy.
// strategy is always a resolved (non-Scenario) value by the time a factory
// sees it.
type ReaderFactory interface {
	Open(path string, strategy ReadingStrategy) (Reader, error)
}

// builtinReaderFactory dispatches to the Buffer, Complete and MemoryMapped
// built-in readers.
type builtinReaderFactory struct {
	bufferSize int
}

// NewBuiltinReaderFactory returns the default ReaderFactory backing Buffer,
// Complete and MemoryMapped strategies. bufferSize <= 0 uses the default
// chunk size (64 KiB) for the Buffer strategy.
func NewBuiltinReaderFactory(bufferSize int) ReaderFactory {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &builtinReaderFactory{bufferSize: bufferSize}
}

func (f *builtinReaderFactory) Open(path string, strategy ReadingStrategy) (Reader, error) {
	switch strategy.Kind() {
	case StrategyBuffer:
		return openBufferReader(path, f.bufferSize)
	case StrategyComplete:
		return openCompleteReader(path)
	case StrategyMemoryMapped:
		return openMmapReader(path)
	default:
		return nil, &PathError{Path: path, Kind: "reader", Err: fmt.Errorf("%w: unresolved strategy %s", ErrUnsupportedStrategy, strategy.Kind())}
	}
}

const defaultBufferSize = 64 * 1024
