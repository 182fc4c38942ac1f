package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/five82/palette/internal/colorapi"
)

const (
	swatchWidth  = 18
	swatchHeight = 3
	copiedLabel  = "Copied!"
)

var (
	inkDark  = colorful.Color{R: 0.08, G: 0.08, B: 0.1}
	inkLight = colorful.Color{R: 0.97, G: 0.97, B: 0.95}
)

// swatchColors returns the fill and the text color that reads best on it.
// ok is false when code is not a parseable hex color.
func swatchColors(code string) (fill, ink string, ok bool) {
	c, err := colorful.Hex(strings.TrimSpace(code))
	if err != nil {
		return "", "", false
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return c.Hex(), inkDark.Hex(), true
	}
	return c.Hex(), inkLight.Hex(), true
}

// swatchMarks reports the per-code feedback drawn on a swatch.
type swatchMarks interface {
	IsCopied(code string) bool
	IsDuplicate(code string) bool
}

// swatchView renders one record as a filled block inside a card.
func swatchView(rec colorapi.Color, marks swatchMarks, selected bool, styles Styles) string {
	name := rec.Name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	codeLine := rec.Code
	if marks.IsCopied(rec.Code) {
		codeLine = copiedLabel
	}
	nameLine := truncate(name, swatchWidth)

	block := lipgloss.NewStyle().
		Width(swatchWidth).
		Height(swatchHeight).
		Align(lipgloss.Center, lipgloss.Center)

	if fill, ink, ok := swatchColors(rec.Code); ok {
		block = block.
			Background(lipgloss.Color(fill)).
			Foreground(lipgloss.Color(ink))
	} else {
		block = block.Foreground(lipgloss.Color(styles.muted)).Italic(true)
	}
	if style, dup := duplicateNameStyle(rec.Code, marks, styles); dup {
		nameLine = style.Render(nameLine)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		block.Render(nameLine+"\n"+codeLine),
		styles.CategoryStyle(rec.Category).Render(truncate(categoryLabel(rec.Category), swatchWidth)),
	)

	if selected {
		return styles.SelectedCard.Render(body)
	}
	return styles.Card.Render(body)
}

// duplicateNameStyle returns the danger style for a swatch name while the
// create form holds the swatch's code.
func duplicateNameStyle(code string, marks swatchMarks, styles Styles) (lipgloss.Style, bool) {
	if !marks.IsDuplicate(code) {
		return lipgloss.Style{}, false
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.danger)).Bold(true)
	if fill, _, ok := swatchColors(code); ok {
		style = style.Background(lipgloss.Color(fill))
	}
	return style, true
}

func categoryLabel(category string) string {
	if strings.TrimSpace(category) == "" {
		return "uncategorized"
	}
	return category
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// gridColumns returns how many swatches fit across width.
func gridColumns(width int, styles Styles) int {
	cell := swatchWidth + styles.Card.GetHorizontalFrameSize() + 1
	cols := width / cell
	if cols < 1 {
		return 1
	}
	return cols
}

// gridView lays the records out in rows of cols swatches.
func gridView(records []colorapi.Color, selected, cols int, marks swatchMarks, styles Styles) string {
	if len(records) == 0 {
		return styles.MutedText.Render("No colors yet. Press a to add one.")
	}
	var rows []string
	for start := 0; start < len(records); start += cols {
		end := min(start+cols, len(records))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			rec := records[i]
			cells = append(cells, swatchView(rec, marks, i == selected, styles), " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
