package dirhash

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// FileConfig holds the on-disk defaults a CLI or embedder seeds an
// OptionsBuilder with: LoadFileConfig reads a parsed ini.File into runtime
// fields the same way ApplyTo later seeds those fields into an
// OptionsBuilder. The in-memory Options snapshot the Walker actually
// consumes stays independent of this file once built.
type FileConfig struct {
	configPath string
	ini        *ini.File

	HashAlgorithm string // "blake3" (default), "sha256", "sha512"
	Threads       int    // 0 means hardware concurrency
	BufferSize    string // human-readable size, e.g. "64K", parsed by ParseHumanSize
	Tolerance     string // "log", "silent", "stop"
	LogLevel      string // "debug", "info", "warn", "error"
}

// LoadFileConfig loads configPath if it exists, or returns FileConfig
// defaults without creating the file; the library itself never touches
// disk outside of the directories it is asked to scan.
func LoadFileConfig(configPath string) (*FileConfig, error) {
	cfg := &FileConfig{
		configPath:    configPath,
		HashAlgorithm: "blake3",
		BufferSize:    "64K",
		Tolerance:     "log",
		LogLevel:      "info",
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, &ConfigError{Subject: configPath, Err: fmt.Errorf("loading config file: %w", err)}
	}
	cfg.ini = iniFile

	hash := iniFile.Section("hash")
	if k, err := hash.GetKey("algorithm"); err == nil {
		cfg.HashAlgorithm = k.String()
	}

	perf := iniFile.Section("performance")
	if k, err := perf.GetKey("threads"); err == nil {
		if v, err := k.Int(); err == nil {
			cfg.Threads = v
		}
	}
	if k, err := perf.GetKey("buffer_size"); err == nil {
		cfg.BufferSize = k.String()
	}

	errSec := iniFile.Section("errors")
	if k, err := errSec.GetKey("tolerance"); err == nil {
		cfg.Tolerance = k.String()
	}

	logSec := iniFile.Section("logging")
	if k, err := logSec.GetKey("level"); err == nil {
		cfg.LogLevel = k.String()
	}

	return cfg, nil
}

// Save writes the current field values back to configPath, creating parent
// directories as needed.
func (c *FileConfig) Save() error {
	if c.ini == nil {
		c.ini = ini.Empty()
	}

	if _, err := c.ini.Section("hash").NewKey("algorithm", c.HashAlgorithm); err != nil {
		return fmt.Errorf("setting hash.algorithm: %w", err)
	}
	if _, err := c.ini.Section("performance").NewKey("threads", fmt.Sprintf("%d", c.Threads)); err != nil {
		return fmt.Errorf("setting performance.threads: %w", err)
	}
	if _, err := c.ini.Section("performance").NewKey("buffer_size", c.BufferSize); err != nil {
		return fmt.Errorf("setting performance.buffer_size: %w", err)
	}
	if _, err := c.ini.Section("errors").NewKey("tolerance", c.Tolerance); err != nil {
		return fmt.Errorf("setting errors.tolerance: %w", err)
	}
	if _, err := c.ini.Section("logging").NewKey("level", c.LogLevel); err != nil {
		return fmt.Errorf("setting logging.level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("saving config file: %w", err)
	}
	return nil
}

// ToleranceValue parses the Tolerance field into a Tolerance, defaulting to
// LogErrors on an unrecognized value.
func (c *FileConfig) ToleranceValue() Tolerance {
	switch c.Tolerance {
	case "silent":
		return DoNotLogErrors
	case "stop":
		return StopOnErrors
	default:
		return LogErrors
	}
}

// ApplyTo seeds b with this FileConfig's defaults. Tolerance is always
// overwritten, the buffer size is overwritten when BufferSize parses, and
// threads are overwritten only when Threads > 0 (a zero leaves b's thread
// count as it was); call ApplyTo first, then override what you need.
func (c *FileConfig) ApplyTo(b *OptionsBuilder) *OptionsBuilder {
	if c.Threads > 0 {
		b.WithThreads(c.Threads)
	}
	b.WithTolerance(c.ToleranceValue())
	if bufSize, err := ParseHumanSize(c.BufferSize); err == nil {
		b.WithBufferSize(bufSize)
	}
	return b
}
