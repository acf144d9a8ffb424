package dirhash

import (
	"fmt"
	"os"
	"path/filepath"
)

// Entry is a root path plus its locally-bound filters and patterns. Created
// by the caller and never mutated once handed to an OptionsBuilder. If
// Patterns is non-empty, Includes/Excludes are ignored for this Entry.
type Entry struct {
	root         string
	includes     []*Filter
	excludes     []*Filter
	patterns     []*PatternFilter
	contextFiles []ContextFile
}

// NewEntry canonicalizes root, verifies it exists and is a directory, and
// binds the given filters. Patterns, when provided, take precedence over
// includes/excludes for this Entry (see Filter engine evaluation order).
func NewEntry(root string, includes, excludes []*Filter, patterns []*PatternFilter) (*Entry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ConfigError{Subject: root, Err: fmt.Errorf("%w: %v", ErrInvalidEntry, err)}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &ConfigError{Subject: root, Err: fmt.Errorf("%w: %v", ErrInvalidEntry, err)}
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil, &ConfigError{Subject: root, Err: ErrInvalidEntry}
	}

	in := make([]*Filter, len(includes))
	copy(in, includes)
	ex := make([]*Filter, len(excludes))
	copy(ex, excludes)
	pt := make([]*PatternFilter, len(patterns))
	copy(pt, patterns)

	return &Entry{
		root:     resolved,
		includes: in,
		excludes: ex,
		patterns: pt,
	}, nil
}

// Root returns the canonicalized, absolute root path.
func (e *Entry) Root() string { return e.root }

// WithContext appends a gitignore-style context file to look for in every
// directory this Entry's traversal visits. Rules found in a directory are
// inherited by its descendants, the same way nested .gitignore files
// compose down a tree. Call before handing the Entry to an OptionsBuilder;
// like the rest of Entry, it must not be mutated afterward.
func (e *Entry) WithContext(cf ContextFile) *Entry {
	e.contextFiles = append(e.contextFiles, cf)
	return e
}
