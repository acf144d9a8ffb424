package dirhash

import (
	"errors"
	"fmt"
)

// Sentinel errors returned or wrapped by the core pipeline. Callers compare
// against these with errors.Is; richer context travels on PathError/ConfigError.
var (
	ErrInvalidPattern      = errors.New("dirhash: invalid glob pattern")
	ErrInvalidNesting      = errors.New("dirhash: Cmb pattern filter may not nest another Cmb")
	ErrInvalidStrategy     = errors.New("dirhash: Scenario reading strategy may not nest another Scenario")
	ErrInvalidEntry        = errors.New("dirhash: entry root does not exist or is not a directory")
	ErrUnsupportedStrategy = errors.New("dirhash: reader cannot honor the resolved strategy")
	ErrCancelled           = errors.New("dirhash: run was cancelled")
	ErrIllegalState        = errors.New("dirhash: operation not valid in the walker's current state")
)

// PathError wraps a failure encountered while touching a specific path,
// covering the taxonomy's Io, ReaderError and HasherError cases.
type PathError struct {
	Path string
	Kind string // "io", "reader", "hasher"
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("dirhash: %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func NewIoError(path string, cause error) *PathError {
	return &PathError{Path: path, Kind: "io", Err: cause}
}

func NewReaderError(path string, cause error) *PathError {
	return &PathError{Path: path, Kind: "reader", Err: cause}
}

func NewHasherError(path string, cause error) *PathError {
	return &PathError{Path: path, Kind: "hasher", Err: cause}
}

// ConfigError wraps a configuration-time failure (pattern compilation,
// entry validation, strategy validation). These are never tolerance-filtered.
type ConfigError struct {
	Subject string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dirhash: config: %s: %v", e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IgnoredEntry records one file excluded from the digest by a tolerated error.
type IgnoredEntry struct {
	Path string
	Err  error
}
