package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// helpModal shows every binding. Any key closes it.
type helpModal struct {
	help help.Model
	keys keyMap
}

func newHelpModal(keys keyMap) helpModal {
	h := help.New()
	h.ShowAll = true
	return helpModal{help: h, keys: keys}
}

func (h helpModal) Update(tea.KeyMsg, keyMap) (Modal, tea.Cmd, modalResult) {
	return h, nil, modalClose
}

func (h helpModal) View(styles Styles, width int) string {
	h.help.Width = width
	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.help.View(h.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Press any key to close"))
	return styles.Form.Render(b.String())
}
