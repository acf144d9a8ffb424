// Package logging provides the small component-scoped logging facade the
// core pipeline emits records through instead of writing to stderr or a
// file directly, a real leveled logger in place of ad hoc debug-flag
// checks scattered through call sites.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level is the facade's own level type, decoupled from charmbracelet/log's.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toCharm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel parses a case-insensitive level name, defaulting to Info on an
// unrecognized value.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the facade handed out by Get. It wraps a shared
// charmbracelet/log.Logger scoped to one component name.
type Logger struct {
	inner *charmlog.Logger
}

func (l Logger) Debug(msg string, kv ...interface{}) { l.inner.Debug(msg, kv...) }
func (l Logger) Info(msg string, kv ...interface{})  { l.inner.Info(msg, kv...) }
func (l Logger) Warn(msg string, kv ...interface{})  { l.inner.Warn(msg, kv...) }
func (l Logger) Error(msg string, kv ...interface{}) { l.inner.Error(msg, kv...) }

// With returns a Logger carrying additional structured key/value context.
func (l Logger) With(kv ...interface{}) Logger {
	return Logger{inner: l.inner.With(kv...)}
}

var (
	mu       sync.Mutex
	base     = charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true})
	loggers  = map[string]*charmlog.Logger{}
)

func init() {
	base.SetLevel(charmlog.InfoLevel)
}

// SetLevel changes the package-wide minimum level for every logger handed
// out by Get.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	base.SetLevel(l.toCharm())
	for _, lg := range loggers {
		lg.SetLevel(l.toCharm())
	}
}

// SetOutput redirects every component logger's destination, for tests or
// embedders that want to capture log output instead of writing to stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base.SetOutput(w)
	for _, lg := range loggers {
		lg.SetOutput(w)
	}
}

// Get returns the shared logger scoped to component name, creating it on
// first use.
func Get(name string) Logger {
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := loggers[name]; ok {
		return Logger{inner: existing}
	}
	l := base.With("component", name)
	loggers[name] = l
	return Logger{inner: l}
}
