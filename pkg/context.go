package dirhash

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// ContextKind tags a ContextFile variant.
type ContextKind int

const (
	// ContextIgnore treats every rule in the named file as an ignore rule,
	// applied to both files and directories.
	ContextIgnore ContextKind = iota
	// ContextAccept treats every rule in the named file as an accept rule,
	// applied only to file paths; directories are never rejected by it.
	ContextAccept
)

// ContextFile names a gitignore-style rule file (e.g. ".dirhashignore")
// looked up in every directory an Entry's traversal visits. Rules found in
// a directory apply to that directory's own children and are inherited by
// its descendants, the same way nested .gitignore files compose down a
// tree. Attach one to an Entry with Entry.WithContext.
type ContextFile struct {
	kind     ContextKind
	filename string
}

// NewIgnoreContextFile names a per-directory rule file whose lines are
// ignore globs.
func NewIgnoreContextFile(filename string) ContextFile {
	return ContextFile{kind: ContextIgnore, filename: filename}
}

// NewAcceptContextFile names a per-directory rule file whose lines are
// accept globs.
func NewAcceptContextFile(filename string) ContextFile {
	return ContextFile{kind: ContextAccept, filename: filename}
}

// contextRule is one parsed line of a context file: a glob matched against
// a child's full path and its basename, plus whether the line carried a
// leading '!' negation.
type contextRule struct {
	g        glob.Glob
	negative bool
}

// parseContextFile reads path line by line, skipping blank lines and '#'
// comments, compiling each remaining line as a glob. A leading
// '!' marks the rule as a negation (an exception to the surrounding rule
// set) and is stripped before compiling. Lines that fail to compile are
// skipped rather than failing the whole file, since a context file is data
// found on disk at traversal time, not configuration validated up front.
func parseContextFile(path string) ([]contextRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rules []contextRule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		negative := strings.HasPrefix(line, "!")
		pattern := line
		if negative {
			pattern = line[1:]
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		rules = append(rules, contextRule{g: g, negative: negative})
	}
	return rules, scanner.Err()
}

// contextPatterns is the accept/ignore rule set in effect for one
// directory: whatever its own context files contributed, merged with the
// ignore rules inherited from its nearest ancestor.
type contextPatterns struct {
	accept []contextRule
	ignore []contextRule
}

func (p *contextPatterns) appendFrom(kind ContextKind, rules []contextRule) {
	switch kind {
	case ContextAccept:
		p.accept = append(p.accept, rules...)
	case ContextIgnore:
		p.ignore = append(p.ignore, rules...)
	}
}

func (p *contextPatterns) inheritIgnoreFrom(parent *contextPatterns) {
	if parent == nil {
		return
	}
	p.ignore = append(p.ignore, parent.ignore...)
}

func matchRules(rules []contextRule, path string, negative bool) bool {
	base := path[strings.LastIndex(path, "/")+1:]
	for _, r := range rules {
		if r.negative == negative && (r.g.Match(path) || r.g.Match(base)) {
			return true
		}
	}
	return false
}

// filtered reports whether path (the full, slash-normalized path of a
// direct child of this contextPatterns' directory) survives the merged
// ignore/accept rules. A rule matches when its glob matches either the full
// path or the child's basename. Ignore rules apply to files and directories alike;
// accept rules apply only to files, and a directory is never rejected by
// an accept list it can't match against.
func (p *contextPatterns) filtered(path string, isDir bool) bool {
	if len(p.ignore) == 0 && len(p.accept) == 0 {
		return true
	}
	if matchRules(p.ignore, path, true) && len(p.accept) == 0 {
		return true
	}
	if matchRules(p.ignore, path, false) {
		return false
	}
	if len(p.accept) == 0 || isDir {
		return true
	}
	if matchRules(p.accept, path, true) {
		return false
	}
	return matchRules(p.accept, path, false)
}

// contextState accumulates per-directory contextPatterns for one Entry's
// traversal during a single run, parsing each directory's context files at
// most once and inheriting ignore rules down from its parent.
type contextState struct {
	mu    sync.Mutex
	files []ContextFile
	dirs  map[string]*contextPatterns
}

// newContextState returns nil when files is empty, so every call site can
// treat a nil *contextState as "no context filtering configured" without a
// separate enabled flag.
func newContextState(files []ContextFile) *contextState {
	if len(files) == 0 {
		return nil
	}
	return &contextState{files: files, dirs: make(map[string]*contextPatterns)}
}

// consider parses dir's own context files, if any exist, and caches the
// resulting contextPatterns (merged with whatever its nearest ancestor
// contributed) for later filteredChild lookups against dir's children.
// Idempotent: a directory is parsed at most once per run.
func (c *contextState) consider(dir string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dirs[dir]; ok {
		return
	}

	patterns := &contextPatterns{}
	for _, cf := range c.files {
		rules, err := parseContextFile(filepath.Join(dir, cf.filename))
		if err != nil {
			continue
		}
		patterns.appendFrom(cf.kind, rules)
	}
	patterns.inheritIgnoreFrom(c.nearestAncestorLocked(dir))
	c.dirs[dir] = patterns
}

func (c *contextState) nearestAncestorLocked(dir string) *contextPatterns {
	current := dir
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		if p, ok := c.dirs[parent]; ok {
			return p
		}
		current = parent
	}
}

// filteredChild reports whether childPath (a direct child of parentDir,
// which must already have been considered) survives parentDir's merged
// context rules. A nil contextState always accepts.
func (c *contextState) filteredChild(parentDir, childPath string, isDir bool) bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	patterns, ok := c.dirs[parentDir]
	c.mu.Unlock()
	if !ok {
		return true
	}
	return patterns.filtered(filepath.ToSlash(childPath), isDir)
}
