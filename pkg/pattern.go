package dirhash

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// PatternKind tags a PatternFilter variant.
type PatternKind int

const (
	PatternAccept PatternKind = iota
	PatternIgnore
	PatternCmb
)

// PatternFilter is a full-path accept/ignore rule. Cmb AND-combines a flat
// list of non-Cmb members; construction rejects nested Cmb groups.
type PatternFilter struct {
	kind    PatternKind
	pattern string
	glob    glob.Glob
	members []*PatternFilter
}

// NewAcceptPattern compiles a full-path glob that, on match, admits the path.
func NewAcceptPattern(pattern string) (*PatternFilter, error) {
	return newLeafPattern(PatternAccept, pattern)
}

// NewIgnorePattern compiles a full-path glob that, on match, rejects the path.
func NewIgnorePattern(pattern string) (*PatternFilter, error) {
	return newLeafPattern(PatternIgnore, pattern)
}

func newLeafPattern(kind PatternKind, pattern string) (*PatternFilter, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, &ConfigError{Subject: fmt.Sprintf("pattern %q", pattern), Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
	}
	return &PatternFilter{kind: kind, pattern: pattern, glob: g}, nil
}

// NewCmbPattern AND-combines a flat list of Accept/Ignore members. None of
// the members may themselves be a Cmb; such nesting returns ErrInvalidNesting.
func NewCmbPattern(members ...*PatternFilter) (*PatternFilter, error) {
	for _, m := range members {
		if m.kind == PatternCmb {
			return nil, &ConfigError{Subject: "Cmb pattern filter", Err: ErrInvalidNesting}
		}
	}
	cp := make([]*PatternFilter, len(members))
	copy(cp, members)
	return &PatternFilter{kind: PatternCmb, members: cp}, nil
}

func (p *PatternFilter) Kind() PatternKind { return p.kind }

// cmbSatisfied reports whether every Accept member matches and no Ignore
// member matches absPath, i.e. the Cmb group's AND-combination holds.
func cmbSatisfied(members []*PatternFilter, absPath string) bool {
	for _, m := range members {
		switch m.kind {
		case PatternAccept:
			if !m.glob.Match(absPath) {
				return false
			}
		case PatternIgnore:
			if m.glob.Match(absPath) {
				return false
			}
		}
	}
	return true
}

// evaluatePatterns implements §4.1's pattern-mode evaluation: ignored beats
// accepted, and with no matching Accept or satisfied Cmb the path is rejected
// (pattern mode is allow-list).
func evaluatePatterns(patterns []*PatternFilter, absPathRaw string) bool {
	absPath := filepath.ToSlash(absPathRaw)

	ignored := false
	accepted := false

	for _, p := range patterns {
		switch p.kind {
		case PatternIgnore:
			if p.glob.Match(absPath) {
				ignored = true
			}
		case PatternAccept:
			if p.glob.Match(absPath) {
				accepted = true
			}
		case PatternCmb:
			if cmbSatisfied(p.members, absPath) {
				accepted = true
			} else {
				ignored = true
			}
		}
	}

	if ignored {
		return false
	}
	return accepted
}
