package dirhash

import (
	"context"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// hashAll implements the hashing pool of §4.7: every collected path is
// hashed independently by a worker pool bounded to 2*threads in-flight
// tasks, then the per-file digests are absorbed into a fresh composite
// Hasher strictly in the sorted index order of collected, regardless of
// which task finished first. Files tolerated away by runState.tolerate are
// skipped in the composition, not absorbed as empty digests.
func hashAll(ctx context.Context, collected []string, opts *Options, run *runState, progress *progressSink, readerFactory ReaderFactory, hasherFactory HasherFactory) ([]byte, error) {
	digests := make([][]byte, len(collected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2 * opts.threads)

	var hashedCount int64

	for i, path := range collected {
		i, path := i, path
		g.Go(func() error {
			fatal := hashOne(gctx, path, opts, run, readerFactory, hasherFactory, digests, i)
			if fatal != nil {
				return fatal
			}
			n := atomic.AddInt64(&hashedCount, 1)
			progress.send(ProgressEvent{Kind: ProgressHashed, Count: int(n)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.mu.Lock()
	fatal := run.firstFatal
	run.mu.Unlock()
	if fatal != nil {
		return nil, fatal
	}
	if run.isCancelled() {
		return nil, ErrCancelled
	}

	composite := hasherFactory.New()
	for i := range collected {
		if digests[i] == nil {
			continue
		}
		composite.Absorb(digests[i])
	}
	return composite.Finalize(), nil
}

// hashOne hashes a single path into digests[i], or leaves it nil when the
// error was tolerated away. It returns non-nil only for a fatal error that
// should abort the whole pool (StopOnErrors, the error-breaker tripping, or
// cancellation).
func hashOne(ctx context.Context, path string, opts *Options, run *runState, readerFactory ReaderFactory, hasherFactory HasherFactory, digests [][]byte, i int) error {
	if run.isCancelled() {
		return ErrCancelled
	}
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		return run.tolerate(path, NewIoError(path, err))
	}

	strategy := opts.readingStrategy.resolve(info.Size())

	reader, err := readerFactory.Open(path, strategy)
	if err != nil {
		return run.tolerate(path, err)
	}
	defer reader.Close()

	hasher := hasherFactory.New()
	var size int64

	for {
		if run.isCancelled() {
			return ErrCancelled
		}
		chunk, ok, err := reader.NextChunk()
		if err != nil {
			return run.tolerate(path, err)
		}
		if !ok {
			break
		}
		hasher.Absorb(chunk)
		size += int64(len(chunk))
	}

	digests[i] = hasher.Finalize()
	run.addBytes(size)
	run.resetConsecutiveFailures()
	return nil
}
