package dirhash

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// FilterKind selects which part of a candidate path a Filter is matched against.
type FilterKind int

const (
	// FilterFolders matches any directory component's basename along the path.
	FilterFolders FilterKind = iota
	// FilterFiles matches the file's own basename; never matches directories.
	FilterFiles
	// FilterCommon matches the full path.
	FilterCommon
)

func (k FilterKind) String() string {
	switch k {
	case FilterFolders:
		return "Folders"
	case FilterFiles:
		return "Files"
	case FilterCommon:
		return "Common"
	default:
		return "Unknown"
	}
}

// Filter is a basename- or path-scoped include/exclude rule compiled at
// construction time. Zero value is not usable; build with NewFolderFilter,
// NewFileFilter or NewCommonFilter.
type Filter struct {
	kind    FilterKind
	pattern string
	glob    glob.Glob
}

func newFilter(kind FilterKind, pattern string) (*Filter, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, &ConfigError{Subject: fmt.Sprintf("filter pattern %q", pattern), Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
	}
	return &Filter{kind: kind, pattern: pattern, glob: g}, nil
}

// NewFolderFilter compiles a glob matched against directory basenames.
func NewFolderFilter(pattern string) (*Filter, error) { return newFilter(FilterFolders, pattern) }

// NewFileFilter compiles a glob matched against a file's own basename.
func NewFileFilter(pattern string) (*Filter, error) { return newFilter(FilterFiles, pattern) }

// NewCommonFilter compiles a glob matched against the full canonical path.
func NewCommonFilter(pattern string) (*Filter, error) { return newFilter(FilterCommon, pattern) }

func (f *Filter) Kind() FilterKind { return f.kind }
func (f *Filter) Pattern() string  { return f.pattern }

// matches evaluates f against absPath, which is a directory when isDir is true.
func (f *Filter) matches(absPath string, isDir bool) bool {
	switch f.kind {
	case FilterFiles:
		if isDir {
			return false
		}
		return f.glob.Match(filepath.Base(absPath))
	case FilterFolders:
		if isDir {
			return f.glob.Match(filepath.Base(absPath))
		}
		dir := filepath.Dir(absPath)
		for {
			base := filepath.Base(dir)
			if base == "." || base == string(filepath.Separator) || base == "" {
				return false
			}
			if f.glob.Match(base) {
				return true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return false
			}
			dir = parent
		}
	case FilterCommon:
		return f.glob.Match(filepath.ToSlash(absPath))
	default:
		return false
	}
}

// anyMatches reports whether any filter in the set matches absPath.
func anyMatches(filters []*Filter, absPath string, isDir bool) bool {
	for _, f := range filters {
		if f.matches(absPath, isDir) {
			return true
		}
	}
	return false
}

// evaluateFilters implements the Filter-engine evaluation order of §4.1:
// pattern mode if the Entry carries patterns (Entry and global
// includes/excludes are then not consulted), otherwise the
// Folders/Files/Common include/exclude union rule, in which exclude always
// wins over include.
func evaluateFilters(entry *Entry, globalIncludes, globalExcludes []*Filter, absPath string, isDir bool) bool {
	if len(entry.patterns) > 0 {
		return evaluatePatterns(entry.patterns, absPath)
	}

	excludes := make([]*Filter, 0, len(entry.excludes)+len(globalExcludes))
	excludes = append(excludes, entry.excludes...)
	excludes = append(excludes, globalExcludes...)

	if isDir {
		return !anyMatches(excludes, absPath, true)
	}

	if anyMatches(excludes, absPath, false) {
		return false
	}

	includes := make([]*Filter, 0, len(entry.includes)+len(globalIncludes))
	includes = append(includes, entry.includes...)
	includes = append(includes, globalIncludes...)

	if len(includes) == 0 {
		return true
	}
	return anyMatches(includes, absPath, false)
}
