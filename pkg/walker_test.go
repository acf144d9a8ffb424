package dirhash

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func mustEntry(t *testing.T, root string, includes, excludes []*Filter, patterns []*PatternFilter) *Entry {
	t.Helper()
	e, err := NewEntry(root, includes, excludes, patterns)
	if err != nil {
		t.Fatalf("NewEntry(%s): %v", root, err)
	}
	return e
}

func mustWalk(t *testing.T, dir string, entries []*Entry) *Walker {
	t.Helper()
	b := NewOptionsBuilder()
	for _, e := range entries {
		b.WithEntry(e)
	}
	w, err := b.Walker()
	if err != nil {
		t.Fatalf("Walker: %v", err)
	}
	if err := w.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return w
}

func blake3Of(data []byte) []byte {
	h := blake3Factory{}.New()
	h.Absorb(data)
	return h.Finalize()
}

// S1: tree {a.txt="x", b.txt="y"}, BLAKE3, no filters.
// hash = BLAKE3(BLAKE3("x") || BLAKE3("y")), files absorbed in sorted order.
func TestScenarioS1BasicComposite(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("y"), 0o644))

	w := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, nil, nil)})

	digest, err := w.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	composite := blake3Factory{}.New()
	composite.Absorb(blake3Of([]byte("x")))
	composite.Absorb(blake3Of([]byte("y")))
	want := composite.Finalize()

	if !bytes.Equal(digest, want) {
		t.Errorf("digest mismatch:\n got  %x\n want %x", digest, want)
	}
}

// S2: include Filter::Files("a.*"). collected=[a.txt].
func TestScenarioS2IncludeFilter(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("y"), 0o644))

	include, err := NewFileFilter("a.*")
	if err != nil {
		t.Fatalf("NewFileFilter: %v", err)
	}
	w := mustWalk(t, dir, []*Entry{mustEntry(t, dir, []*Filter{include}, nil, nil)})

	collected := w.Collected()
	if len(collected) != 1 || filepath.Base(collected[0]) != "a.txt" {
		t.Fatalf("expected collected=[a.txt], got %v", collected)
	}

	digest, err := w.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	composite := blake3Factory{}.New()
	composite.Absorb(blake3Of([]byte("x")))
	want := composite.Finalize()
	if !bytes.Equal(digest, want) {
		t.Errorf("digest mismatch:\n got  %x\n want %x", digest, want)
	}
}

// S3: exclude Filter::Folders("*Bieber*"). collected=[sub/a.flac].
func TestScenarioS3ExcludeFolder(t *testing.T) {
	dir := t.TempDir()
	must(t, os.MkdirAll(filepath.Join(dir, "sub", "Bieber"), 0o755))
	must(t, os.WriteFile(filepath.Join(dir, "sub", "a.flac"), []byte("A"), 0o644))
	must(t, os.WriteFile(filepath.Join(dir, "sub", "Bieber", "b.flac"), []byte("B"), 0o644))

	exclude, err := NewFolderFilter("*Bieber*")
	if err != nil {
		t.Fatalf("NewFolderFilter: %v", err)
	}
	w := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, []*Filter{exclude}, nil)})

	collected := w.Collected()
	if len(collected) != 1 || filepath.Base(collected[0]) != "a.flac" {
		t.Fatalf("expected collected=[sub/a.flac], got %v", collected)
	}
}

// S5: one unreadable file and one ok file, LogErrors tolerance.
func TestScenarioS5LogErrorsTolerance(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission enforcement is unreliable when running as root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked.bin")
	must(t, os.WriteFile(locked, []byte("secret"), 0o644))
	must(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })
	must(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("z"), 0o644))

	b := NewOptionsBuilder().WithEntry(mustEntry(t, dir, nil, nil, nil)).WithTolerance(LogErrors)
	w, err := b.Walker()
	if err != nil {
		t.Fatalf("Walker: %v", err)
	}
	if err := w.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	digest, err := w.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	composite := blake3Factory{}.New()
	composite.Absorb(blake3Of([]byte("z")))
	want := composite.Finalize()
	if !bytes.Equal(digest, want) {
		t.Errorf("digest mismatch:\n got  %x\n want %x", digest, want)
	}

	ignored := w.Ignored()
	found := false
	for _, ig := range ignored {
		if filepath.Base(ig.Path) == "locked.bin" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected locked.bin in ignored list, got %v", ignored)
	}
}

// S6: same as S5 with StopOnErrors. Run fails, no digest.
func TestScenarioS6StopOnErrorsTolerance(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission enforcement is unreliable when running as root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked.bin")
	must(t, os.WriteFile(locked, []byte("secret"), 0o644))
	must(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })
	must(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("z"), 0o644))

	b := NewOptionsBuilder().WithEntry(mustEntry(t, dir, nil, nil, nil)).WithTolerance(StopOnErrors)
	w, err := b.Walker()
	if err != nil {
		t.Fatalf("Walker: %v", err)
	}
	if err := w.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if _, err := w.Hash(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected StopOnErrors to abort the run with an error")
	}
}

// Invariant 8: calling Hash twice on the same Walker returns identical digests.
func TestHashIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	w := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, nil, nil)})

	d1, err := w.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("first Hash: %v", err)
	}
	d2, err := w.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("second Hash: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Errorf("expected identical digests across repeated Hash calls")
	}
}

// Invariant 5: modifying a byte of an included file changes the digest.
func TestContentSensitivity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	must(t, os.WriteFile(path, []byte("x"), 0o644))
	w1 := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, nil, nil)})
	d1, err := w1.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	must(t, os.WriteFile(path, []byte("X"), 0o644))
	w2 := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, nil, nil)})
	d2, err := w2.Hash(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if bytes.Equal(d1, d2) {
		t.Errorf("expected digest to change after modifying file content")
	}
}

func TestCollectTwiceReturnsIllegalState(t *testing.T) {
	dir := t.TempDir()
	w := mustWalk(t, dir, []*Entry{mustEntry(t, dir, nil, nil, nil)})
	if err := w.Collect(context.Background()); err == nil {
		t.Errorf("expected second Collect to fail with ErrIllegalState")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
