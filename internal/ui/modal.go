package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// modalResult tells the model what a modal wants after handling a key.
type modalResult int

const (
	modalOpen modalResult = iota
	modalSubmit
	modalClose
)

// Modal is the interface for overlays that take the keyboard while open.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, modalResult)
	View(styles Styles, width int) string
}
