package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 3 * time.Second

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

// toast is the notification shown under the grid. Each Show gets a new id
// so that the dismiss timer of an older toast leaves a newer one alone.
type toast struct {
	message string
	kind    toastKind
	id      int
	visible bool
}

func (t toast) Show(message string, kind toastKind) (toast, tea.Cmd) {
	t.id++
	t.message = message
	t.kind = kind
	t.visible = true
	id := t.id
	return t, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

func (t toast) Dismiss(id int) toast {
	if id != t.id {
		return t
	}
	t.visible = false
	t.message = ""
	return t
}

func (t toast) View(styles Styles) string {
	if !t.visible || t.message == "" {
		return ""
	}
	if t.kind == toastError {
		return styles.ToastError.Render("✗ " + t.message)
	}
	return styles.ToastSuccess.Render("✓ " + t.message)
}

type toastDismissMsg struct{ id int }
