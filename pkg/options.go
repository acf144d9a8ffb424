package dirhash

import (
	"fmt"
	"runtime"
)

// Tolerance controls how per-file errors during collection and hashing
// affect the run.
type Tolerance int

const (
	// LogErrors skips the offending file, appends it to Ignored, and logs
	// at warn level.
	LogErrors Tolerance = iota
	// DoNotLogErrors behaves like LogErrors without emitting a log record.
	DoNotLogErrors
	// StopOnErrors aborts the run on the first tolerated-class error.
	StopOnErrors
)

func (t Tolerance) String() string {
	switch t {
	case LogErrors:
		return "LogErrors"
	case DoNotLogErrors:
		return "DoNotLogErrors"
	case StopOnErrors:
		return "StopOnErrors"
	default:
		return "Unknown"
	}
}

// Options is an immutable configuration snapshot handed off to a Walker.
// Build one with OptionsBuilder.
type Options struct {
	entries               []*Entry
	includes              []*Filter
	excludes              []*Filter
	readingStrategy       ReadingStrategy
	threads               int
	progressCapacity      int
	tolerance             Tolerance
	maxConsecutiveIgnored int
	bufferSize            int
}

func (o *Options) Entries() []*Entry         { return o.entries }
func (o *Options) Threads() int              { return o.threads }
func (o *Options) ProgressCapacity() int     { return o.progressCapacity }
func (o *Options) Tolerance() Tolerance      { return o.tolerance }
func (o *Options) ReadingStrategy() ReadingStrategy { return o.readingStrategy }
func (o *Options) BufferSize() int           { return o.bufferSize }

// OptionsBuilder collects configuration, validates it, and hands off an
// immutable Options snapshot. Zero value is ready to use; start from
// NewOptionsBuilder for sane defaults.
type OptionsBuilder struct {
	entries               []*Entry
	includes              []*Filter
	excludes              []*Filter
	readingStrategy       ReadingStrategy
	threads               int
	progressCapacity      int
	tolerance             Tolerance
	maxConsecutiveIgnored int
	bufferSize            int
}

// NewOptionsBuilder returns a builder defaulted to hardware concurrency
// threads, the Buffer reading strategy, and LogErrors tolerance.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{
		readingStrategy: Buffer(),
		threads:         runtime.GOMAXPROCS(0),
		tolerance:       LogErrors,
	}
}

func (b *OptionsBuilder) WithEntry(e *Entry) *OptionsBuilder {
	b.entries = append(b.entries, e)
	return b
}

func (b *OptionsBuilder) WithInclude(f *Filter) *OptionsBuilder {
	b.includes = append(b.includes, f)
	return b
}

func (b *OptionsBuilder) WithExclude(f *Filter) *OptionsBuilder {
	b.excludes = append(b.excludes, f)
	return b
}

func (b *OptionsBuilder) WithReadingStrategy(s ReadingStrategy) *OptionsBuilder {
	b.readingStrategy = s
	return b
}

func (b *OptionsBuilder) WithThreads(n int) *OptionsBuilder {
	b.threads = n
	return b
}

func (b *OptionsBuilder) WithProgressCapacity(n int) *OptionsBuilder {
	b.progressCapacity = n
	return b
}

func (b *OptionsBuilder) WithTolerance(t Tolerance) *OptionsBuilder {
	b.tolerance = t
	return b
}

// WithBufferSize sets the chunk size (bytes) the default Buffer reader uses
// when Walker.Hash is called with a nil ReaderFactory. n <= 0 uses the
// built-in default (64 KiB).
func (b *OptionsBuilder) WithBufferSize(n int) *OptionsBuilder {
	b.bufferSize = n
	return b
}

// WithErrorBreaker trips StopOnErrors-like behavior after n consecutive
// per-file failures, even under LogErrors/DoNotLogErrors. This extends the
// plain cancellation flag used elsewhere in the run with a consecutive-
// failure count of its own; n <= 0 disables the breaker (the default).
func (b *OptionsBuilder) WithErrorBreaker(n int) *OptionsBuilder {
	b.maxConsecutiveIgnored = n
	return b
}

// Build validates the accumulated configuration and returns an immutable
// Options snapshot. At least one Entry is required; a thread count below 1
// falls back to hardware concurrency.
func (b *OptionsBuilder) Build() (*Options, error) {
	if len(b.entries) == 0 {
		return nil, &ConfigError{Subject: "options", Err: fmt.Errorf("at least one entry is required")}
	}
	threads := b.threads
	if threads < 1 {
		threads = runtime.GOMAXPROCS(0)
	}

	entries := make([]*Entry, len(b.entries))
	copy(entries, b.entries)
	includes := make([]*Filter, len(b.includes))
	copy(includes, b.includes)
	excludes := make([]*Filter, len(b.excludes))
	copy(excludes, b.excludes)

	return &Options{
		entries:               entries,
		includes:              includes,
		excludes:              excludes,
		readingStrategy:       b.readingStrategy,
		threads:               threads,
		progressCapacity:      b.progressCapacity,
		tolerance:             b.tolerance,
		maxConsecutiveIgnored: b.maxConsecutiveIgnored,
		bufferSize:            b.bufferSize,
	}, nil
}

// Walker returns a fresh Walker bound to a snapshot built from the
// accumulated configuration.
func (b *OptionsBuilder) Walker() (*Walker, error) {
	opts, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewWalker(opts), nil
}
