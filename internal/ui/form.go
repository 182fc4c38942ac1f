package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/palette/internal/registry"
)

type formMode int

const (
	formCreate formMode = iota
	formEdit
)

const (
	fieldCode = iota
	fieldName
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{"Color", "Name", "Category"}

// colorForm edits the code, name and category of one record.
type colorForm struct {
	mode   formMode
	title  string
	inputs [fieldCount]textinput.Model
	focus  int
}

func newColorForm(mode formMode, title string, values registry.Form) colorForm {
	f := colorForm{mode: mode, title: title}
	placeholders := [fieldCount]string{"#rrggbb", "optional", "optional"}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		in.Width = 24
		f.inputs[i] = in
	}
	f.inputs[fieldCode].CharLimit = 16
	f.inputs[fieldCode].SetValue(values.Code)
	f.inputs[fieldName].SetValue(values.Name)
	f.inputs[fieldCategory].SetValue(values.Category)
	f.inputs[fieldCode].Focus()
	return f
}

// Values returns the current input text.
func (f colorForm) Values() registry.Form {
	return registry.Form{
		Code:     f.inputs[fieldCode].Value(),
		Name:     f.inputs[fieldName].Value(),
		Category: f.inputs[fieldCategory].Value(),
	}
}

func (f colorForm) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, modalResult) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return f, nil, modalClose
	case key.Matches(msg, keys.Submit):
		if strings.TrimSpace(f.inputs[fieldCode].Value()) == "" {
			f = f.focusField(fieldCode)
			return f, nil, modalOpen
		}
		return f, nil, modalSubmit
	case key.Matches(msg, keys.NextField):
		f = f.focusField((f.focus + 1) % fieldCount)
		return f, textinput.Blink, modalOpen
	case key.Matches(msg, keys.PrevField):
		f = f.focusField((f.focus + fieldCount - 1) % fieldCount)
		return f, textinput.Blink, modalOpen
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, modalOpen
}

func (f colorForm) focusField(i int) colorForm {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
	return f
}

func (f colorForm) View(styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := styles.Label
		if i == f.focus {
			label = styles.FocusedLabel
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	submit := "Add"
	if f.mode == formEdit {
		submit = "Update"
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("[enter] " + submit))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render("[esc] Cancel"))

	formWidth := min(width-2, 48)
	if formWidth < 20 {
		formWidth = 20
	}
	return styles.Form.Width(formWidth).Render(b.String())
}
