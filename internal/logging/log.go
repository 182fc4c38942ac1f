// Package logging provides leveled, categorised logging for palette.
// The terminal belongs to the TUI, so entries go to a file opened with
// tea.LogToFile. Nothing is written until Init is called.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config value to a Level, defaulting to info.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

// Category groups related log messages.
type Category string

const (
	CatAPI       Category = "api"       // color service requests
	CatStore     Category = "store"     // registry state transitions
	CatUI        Category = "ui"        // TUI events
	CatConfig    Category = "config"    // config and prefs loading/saving
	CatClipboard Category = "clipboard" // clipboard writes
)

type logger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel Level
}

var (
	stateMu sync.RWMutex
	current *logger
)

// Init opens path for appending and routes all entries there.
// The returned function closes the file.
func Init(path string, level Level) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	setLogger(&logger{writer: f, minLevel: level})
	return func() {
		setLogger(nil)
		_ = f.Close()
	}, nil
}

// SetOutput routes entries to w; passing nil disables logging.
func SetOutput(w io.Writer, level Level) {
	if w == nil {
		setLogger(nil)
		return
	}
	setLogger(&logger{writer: w, minLevel: level})
}

func setLogger(l *logger) {
	stateMu.Lock()
	current = l
	stateMu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	stateMu.RLock()
	l := current
	stateMu.RUnlock()
	if l == nil || level < l.minLevel {
		return
	}

	// 2026-01-02T15:04:05 [WARN] [store] message key=value
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, b.String())
}
