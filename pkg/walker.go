package dirhash

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/mattkeenan/dirhash/internal/logging"
)

// walkerState is the Fresh -> Collecting -> Collected -> Hashing -> Hashed
// state machine of §4.8. cancel() may transition out of any state into the
// Cancelled terminal.
type walkerState int

const (
	stateFresh walkerState = iota
	stateCollecting
	stateCollected
	stateHashing
	stateHashed
	stateCancelled
)

// RunStats summarizes one Walker run: a read-only tally derived from the
// same collected/ignored bookkeeping the Walker already keeps, exposed for
// callers that want a count without re-deriving it from Collected/Ignored
// themselves.
type RunStats struct {
	FilesCollected int
	BytesHashed    int64
	FilesIgnored   int
}

// runState is the shared, cross-goroutine coordination block for one
// collect()/hash() call: the cancellation flag, the ignored-entry
// accumulator, tolerance enforcement and the hashed-byte tally; the progress
// sink is passed alongside it rather than held by it. Collector and
// the hashing pool both operate against the same runState for the life of
// the call.
type runState struct {
	opts    *Options
	logger  logging.Logger
	runID   string
	cancel  atomic.Bool
	tol     Tolerance

	mu              sync.Mutex
	ignored         []IgnoredEntry
	firstFatal      error
	consecutiveFail int
	maxConsecutive  int
	bytes           atomic.Int64
}

func (r *runState) addBytes(n int64) { r.bytes.Add(n) }

// watchContext funnels ctx cancellation into the runState's own flag, so
// every worker checking run.isCancelled() at a chunk/directory boundary
// (§5) observes caller-driven cancellation the same way it observes
// Walker.Cancel(). The returned func must be called once the run
// completes to stop the watcher goroutine leaking.
func watchContext(ctx context.Context, run *runState) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			run.requestCancel(ErrCancelled)
		case <-done:
		}
	}()
	return func() { close(done) }
}

func newRunState(opts *Options, logger logging.Logger) *runState {
	return &runState{
		opts:           opts,
		logger:         logger,
		runID:          uuid.NewString(),
		tol:            opts.tolerance,
		maxConsecutive: opts.maxConsecutiveIgnored,
	}
}

func (r *runState) isCancelled() bool { return r.cancel.Load() }

func (r *runState) requestCancel(err error) {
	r.cancel.Store(true)
	r.mu.Lock()
	if r.firstFatal == nil {
		r.firstFatal = err
	}
	r.mu.Unlock()
}

// tolerate applies the Tolerance policy of §7 to a per-file/per-directory
// error. It returns the error the caller should treat as fatal (nil if the
// error was absorbed into ignored).
func (r *runState) tolerate(path string, err error) error {
	if r.tol == StopOnErrors {
		r.requestCancel(err)
		return err
	}

	if r.tol == LogErrors {
		r.logger.Warn("dirhash: tolerated error", "path", path, "run", r.runID, "err", err)
	}

	r.mu.Lock()
	r.ignored = append(r.ignored, IgnoredEntry{Path: path, Err: err})
	r.consecutiveFail++
	tripped := r.maxConsecutive > 0 && r.consecutiveFail >= r.maxConsecutive
	r.mu.Unlock()

	if tripped {
		r.requestCancel(err)
		return err
	}
	return nil
}

func (r *runState) resetConsecutiveFailures() {
	r.mu.Lock()
	r.consecutiveFail = 0
	r.mu.Unlock()
}

func (r *runState) snapshotIgnored() []IgnoredEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]IgnoredEntry, len(r.ignored))
	copy(out, r.ignored)
	return out
}

// Walker owns a completed collection and orchestration state for one
// configured run. Build one from an OptionsBuilder or NewWalker(opts).
type Walker struct {
	opts   *Options
	logger logging.Logger

	mu             sync.Mutex
	state          walkerState
	collected      []string
	collectIgnored []IgnoredEntry
	hashIgnored    []IgnoredEntry
	progress       *progressSink
	progressClosed sync.Once
	run            *runState
	bytesHashed    int64
}

// NewWalker binds a fresh Walker to an immutable Options snapshot.
func NewWalker(opts *Options) *Walker {
	return &Walker{
		opts:   opts,
		logger: logging.Get("dirhash.walker"),
		state:  stateFresh,
	}
}

// Progress returns the receiving end of the bounded progress channel, or
// nil if progress was disabled (ProgressCapacity == 0). The channel spans
// Collect and every subsequent Hash call on this Walker and is only closed
// by Cancel, since Hash may legitimately be called again after it returns;
// a consumer ranging over it should stop once it has what it needs rather
// than assuming the producer side will ever close on its own in the
// non-cancelled case.
func (w *Walker) Progress() <-chan ProgressEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.progress == nil {
		return nil
	}
	return w.progress.channel()
}

// Ignored returns the (path, error) list tolerated away by Collect plus the
// most recent Hash call. Ordering is unspecified (§5). A Hash call's own
// ignored entries replace those of the previous Hash call rather than
// accumulating, since Hash is independent and pure over the collected list
// and may be called repeatedly.
func (w *Walker) Ignored() []IgnoredEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]IgnoredEntry, 0, len(w.collectIgnored)+len(w.hashIgnored))
	out = append(out, w.collectIgnored...)
	out = append(out, w.hashIgnored...)
	return out
}

// IgnoredError aggregates Ignored() into a single inspectable error via
// hashicorp/go-multierror, for callers that want one value instead of
// walking the slice themselves. Returns nil if nothing was ignored.
func (w *Walker) IgnoredError() error {
	entries := w.Ignored()
	if len(entries) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range entries {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", e.Path, e.Err))
	}
	return merr.ErrorOrNil()
}

// Cancel is idempotent and sets the cancellation flag visible to all
// workers of the in-progress Collect/Hash call, if any.
func (w *Walker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.run != nil {
		w.run.requestCancel(ErrCancelled)
	}
	if w.state != stateHashed {
		w.state = stateCancelled
	}
	if w.progress != nil {
		w.progressClosed.Do(w.progress.close)
	}
}

// Collect runs the parallel traversal exactly once per Walker, populating
// the sorted collected list. Calling it a second time returns
// ErrIllegalState.
func (w *Walker) Collect(ctx context.Context) error {
	w.mu.Lock()
	if w.state != stateFresh {
		w.mu.Unlock()
		return &ConfigError{Subject: "collect", Err: ErrIllegalState}
	}
	w.state = stateCollecting
	run := newRunState(w.opts, w.logger)
	w.progress = newProgressSink(w.opts.progressCapacity)
	w.run = run
	progress := w.progress
	w.mu.Unlock()

	stopWatch := watchContext(ctx, run)
	defer stopWatch()

	paths, err := collect(ctx, w.opts, run, progress)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.collectIgnored = run.snapshotIgnored()

	if run.isCancelled() && err == nil {
		err = ErrCancelled
	}
	if err != nil {
		w.state = stateCancelled
		return err
	}

	w.collected = paths
	w.state = stateCollected
	w.logger.Info("dirhash: collection complete", "files", len(paths), "run", run.runID)
	return nil
}

// Hash may be called repeatedly once Collect has completed; each call is
// independent and pure over the collected list (§4.8, invariant 8).
// readerFactory/hasherFactory select the I/O and digest implementations;
// pass nil to use the built-in defaults (buffered/complete/mmap readers,
// BLAKE3 hasher).
func (w *Walker) Hash(ctx context.Context, readerFactory ReaderFactory, hasherFactory HasherFactory) ([]byte, error) {
	w.mu.Lock()
	if w.state != stateCollected && w.state != stateHashed {
		w.mu.Unlock()
		return nil, &ConfigError{Subject: "hash", Err: ErrIllegalState}
	}
	collected := w.collected
	opts := w.opts
	progress := w.progress
	w.state = stateHashing
	run := newRunState(opts, w.logger)
	w.run = run
	w.mu.Unlock()

	if readerFactory == nil {
		readerFactory = NewBuiltinReaderFactory(opts.BufferSize())
	}
	if hasherFactory == nil {
		var err error
		hasherFactory, err = GetHasherFactory("")
		if err != nil {
			return nil, err
		}
	}

	stopWatch := watchContext(ctx, run)
	defer stopWatch()

	digest, err := hashAll(ctx, collected, opts, run, progress, readerFactory, hasherFactory)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.hashIgnored = run.snapshotIgnored()
	w.bytesHashed = run.bytes.Load()

	if run.isCancelled() && err == nil {
		err = ErrCancelled
	}
	if err != nil {
		w.state = stateCancelled
		return nil, err
	}

	w.state = stateHashed
	return digest, nil
}

// Stats returns a snapshot of per-run counters. Valid after Collect and/or
// Hash has completed. FilesIgnored and BytesHashed reflect Collect plus the
// most recent Hash call, not every Hash call ever made on this Walker.
func (w *Walker) Stats() RunStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return RunStats{
		FilesCollected: len(w.collected),
		FilesIgnored:   len(w.collectIgnored) + len(w.hashIgnored),
		BytesHashed:    w.bytesHashed,
	}
}

// Collected returns the sorted list of paths selected for hashing. Valid
// after Collect has completed.
func (w *Walker) Collected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.collected))
	copy(out, w.collected)
	return out
}
