package dirhash

import (
	"path/filepath"
	"testing"
)

func TestLoadFileConfigDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFileConfig(filepath.Join(dir, "config"))
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if cfg.HashAlgorithm != "blake3" {
		t.Errorf("expected default hash algorithm blake3, got %s", cfg.HashAlgorithm)
	}
	if cfg.ToleranceValue() != LogErrors {
		t.Errorf("expected default tolerance LogErrors")
	}
}

func TestFileConfigSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config")

	cfg, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	cfg.HashAlgorithm = "sha256"
	cfg.Threads = 4
	cfg.Tolerance = "stop"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("reload LoadFileConfig: %v", err)
	}
	if reloaded.HashAlgorithm != "sha256" {
		t.Errorf("expected reloaded hash algorithm sha256, got %s", reloaded.HashAlgorithm)
	}
	if reloaded.Threads != 4 {
		t.Errorf("expected reloaded threads 4, got %d", reloaded.Threads)
	}
	if reloaded.ToleranceValue() != StopOnErrors {
		t.Errorf("expected reloaded tolerance StopOnErrors")
	}
}

func TestFileConfigApplyToSeedsBuilder(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFileConfig(filepath.Join(dir, "config"))
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	cfg.Threads = 3
	cfg.Tolerance = "silent"

	b := NewOptionsBuilder()
	cfg.ApplyTo(b)

	entry, err := NewEntry(dir, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	opts, err := b.WithEntry(entry).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if opts.Threads() != 3 {
		t.Errorf("expected threads 3, got %d", opts.Threads())
	}
	if opts.Tolerance() != DoNotLogErrors {
		t.Errorf("expected DoNotLogErrors tolerance")
	}
}
