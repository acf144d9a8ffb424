package dirhash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContextIgnoreFileExcludesMatchingChildren(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, ".dirhashignore"), []byte("*.log\n"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "b.log"), []byte("b"), 0o644))

	entry := mustEntry(t, dir, nil, nil, nil)
	entry.WithContext(NewIgnoreContextFile(".dirhashignore"))

	w := mustWalk(t, dir, []*Entry{entry})
	collected := w.Collected()
	for _, p := range collected {
		if filepath.Base(p) == "b.log" {
			t.Errorf("expected b.log to be ignored by context file, got %v", collected)
		}
	}
	if len(collected) != 2 {
		t.Errorf("expected a.txt and the ignore file itself (unmatched by *.log) to remain, got %v", collected)
	}
}

func TestContextAcceptFileOnlyConstrainsFiles(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, ".dirhashaccept"), []byte("*.keep\n"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "x.keep"), []byte("x"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "y.drop"), []byte("y"), 0o644))
	must(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	must(t, os.WriteFile(filepath.Join(dir, "sub", "z.keep"), []byte("z"), 0o644))

	entry := mustEntry(t, dir, nil, nil, nil)
	entry.WithContext(NewAcceptContextFile(".dirhashaccept"))

	w := mustWalk(t, dir, []*Entry{entry})
	collected := w.Collected()
	for _, p := range collected {
		if filepath.Base(p) == "y.drop" {
			t.Errorf("expected y.drop to be rejected by the accept file, got %v", collected)
		}
	}
	foundSubfile := false
	for _, p := range collected {
		if filepath.Base(p) == "z.keep" {
			foundSubfile = true
		}
	}
	if !foundSubfile {
		t.Errorf("expected sub/z.keep to be collected since directories are never rejected by an accept file, got %v", collected)
	}
}

func TestContextIgnoreRulesInheritToDescendants(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, ".dirhashignore"), []byte("*.tmp\n"), 0o644))
	must(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	must(t, os.WriteFile(filepath.Join(dir, "sub", "keep.txt"), []byte("k"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "sub", "drop.tmp"), []byte("d"), 0o644))

	entry := mustEntry(t, dir, nil, nil, nil)
	entry.WithContext(NewIgnoreContextFile(".dirhashignore"))

	w := mustWalk(t, dir, []*Entry{entry})
	for _, p := range w.Collected() {
		if filepath.Base(p) == "drop.tmp" {
			t.Errorf("expected sub/drop.tmp to inherit the root ignore rule, got %v", w.Collected())
		}
	}
}

func TestContextNegationExemptsFromIgnore(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, ".dirhashignore"), []byte("*.log\n!keep.log\n"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("a"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "keep.log"), []byte("k"), 0o644))

	entry := mustEntry(t, dir, nil, nil, nil)
	entry.WithContext(NewIgnoreContextFile(".dirhashignore"))

	w := mustWalk(t, dir, []*Entry{entry})
	var sawKeep, sawDropped bool
	for _, p := range w.Collected() {
		switch filepath.Base(p) {
		case "keep.log":
			sawKeep = true
		case "a.log":
			sawDropped = true
		}
	}
	if !sawKeep {
		t.Errorf("expected keep.log to survive via negation, got %v", w.Collected())
	}
	if sawDropped {
		t.Errorf("expected a.log to be ignored, got %v", w.Collected())
	}
}

func TestParseContextFileSkipsBlankLinesAndComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules")
	must(t, os.WriteFile(path, []byte("\n# a comment\n*.bin\n\n"), 0o644))

	rules, err := parseContextFile(path)
	if err != nil {
		t.Fatalf("parseContextFile: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected exactly one parsed rule, got %d", len(rules))
	}
	if rules[0].negative {
		t.Errorf("expected a non-negated rule")
	}
}

func TestNilContextStateAcceptsEverything(t *testing.T) {
	var c *contextState
	c.consider("/some/dir")
	if !c.filteredChild("/some/dir", "/some/dir/child", false) {
		t.Errorf("expected a nil contextState to accept every child")
	}
}
