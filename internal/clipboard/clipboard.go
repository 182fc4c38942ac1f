// Package clipboard writes copied color codes to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/five82/palette/internal/logging"
)

// Writer receives copied text.
type Writer interface {
	Write(text string) error
}

// System writes to the OS clipboard. The zero value is ready to use.
type System struct{}

// Write copies text to the clipboard.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unavailable: no copy utility found")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	logging.Debug(logging.CatClipboard, "copied", "text", text)
	return nil
}

// Memory keeps the last written text. It stands in for the system clipboard
// when none is available, for example over SSH without a display.
type Memory struct {
	mu   sync.Mutex
	last string
}

// Write stores text.
func (m *Memory) Write(text string) error {
	m.mu.Lock()
	m.last = text
	m.mu.Unlock()
	return nil
}

// Last returns the most recently written text.
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// New returns the system clipboard when one is usable, otherwise an
// in-memory fallback.
func New() Writer {
	if clipboard.Unsupported {
		logging.Warn(logging.CatClipboard, "system clipboard unsupported; copies stay in memory")
		return &Memory{}
	}
	return System{}
}
