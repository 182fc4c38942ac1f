package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/palette/internal/colorapi"
	"github.com/five82/palette/internal/logging"
	"github.com/five82/palette/internal/prefs"
	"github.com/five82/palette/internal/registry"
)

const appTitle = "Color Palette"

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *registry.Store
	Notices   <-chan Notice
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *registry.Store
	states    <-chan registry.State
	notices   <-chan Notice
	prefs     prefs.Prefs
	prefsPath string
	keys      keyMap

	// UI state
	theme   Theme
	styles  Styles
	width   int
	height  int
	ready   bool
	help    help.Model
	spinner spinner.Model
	toast   toast
	modal   Modal

	// Data state
	state    registry.State
	selected int
}

// New creates a new Bubble Tea model subscribed to the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)
	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		notices:   opts.Notices,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     theme,
		styles:    theme.Styles(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	if m.store != nil {
		m.states = m.store.Subscribe(ctx)
		m.state = m.store.State()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		listenStates(m.states),
		listenNotices(m.notices),
	}
	if m.store != nil {
		cmds = append(cmds, loadCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case stateMsg:
		m.state = registry.State(msg)
		m.clampSelection()
		return m, listenStates(m.states)

	case noticeMsg:
		kind := toastSuccess
		if msg.Err {
			kind = toastError
		}
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Show(msg.Message, kind)
		return m, tea.Batch(cmd, listenNotices(m.notices))

	case toastDismissMsg:
		m.toast = m.toast.Dismiss(msg.id)
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if bar := m.renderUndoBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.modal != nil {
		b.WriteString(m.modal.View(m.styles, m.width))
		b.WriteString("\n\n")
	}
	if _, isHelp := m.modal.(helpModal); !isHelp {
		b.WriteString(gridView(m.state.Records, m.selected, gridColumns(m.width, m.styles), m.state, m.styles))
		b.WriteString("\n")
	}

	if t := m.toast.View(m.styles); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	parts := []string{m.titleStyle().Render(appTitle)}
	if m.state.Busy > 0 {
		parts = append(parts, m.spinner.View())
	}
	order := "server order"
	if m.state.SortByCategory {
		order = "by category"
	}
	parts = append(parts,
		m.styles.MutedText.Render(fmt.Sprintf("%d colors", len(m.state.Records))),
		m.styles.FaintText.Render(order),
		m.styles.FaintText.Render(m.theme.Name),
	)
	if !m.state.LastLoaded.IsZero() {
		parts = append(parts, m.styles.FaintText.Render("synced "+humanizeDuration(time.Since(m.state.LastLoaded))))
	}
	if m.state.LastError != nil {
		parts = append(parts, m.styles.WarningText.Render("offline"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

// titleStyle turns the title to the danger color while the create form
// holds a code that already exists.
func (m Model) titleStyle() lipgloss.Style {
	if m.state.DraftCollides() {
		return m.styles.DuplicateTitle
	}
	return m.styles.Title
}

func (m Model) renderUndoBar() string {
	rec := m.state.PendingUndo
	if rec == nil {
		return ""
	}
	label := rec.Code
	if rec.Name != "" {
		label += " " + rec.Name
	}
	return m.styles.WarningText.Render(fmt.Sprintf("Deleted %s. Press u to undo.", label))
}

func (m Model) renderFooter() string {
	if _, ok := m.modal.(colorForm); ok {
		return m.styles.Footer.Render(m.help.View(formKeys{m.keys}))
	}
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.modal != nil {
		return m.handleModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = newHelpModal(m.keys)
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, loadCmd(m.ctx, m.store)

	case key.Matches(msg, m.keys.ToggleSort):
		on := !m.state.SortByCategory
		m.prefs.SortByCategory = on
		m.savePrefs()
		return m, sortCmd(m.ctx, m.store, on)

	case key.Matches(msg, m.keys.Add):
		m.modal = newColorForm(formCreate, "Add Color", m.state.Draft)
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		if m.state.PendingUndo == nil {
			return m, nil
		}
		return m, undoCmd(m.ctx, m.store)
	}

	cols := gridColumns(m.width, m.styles)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-cols)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(cols)
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
		return m, nil
	}

	rec, ok := m.selectedRecord()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		if err := m.store.BeginEdit(rec.ID); err != nil {
			return m, nil
		}
		title := "Editing Color: " + rec.Name
		if rec.Name == "" {
			title = "Editing Color: " + rec.Code
		}
		m.modal = newColorForm(formEdit, title, registry.Form{Code: rec.Code, Name: rec.Name, Category: rec.Category})
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		return m, removeCmd(m.ctx, m.store, rec.ID)
	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.store, rec.Code)
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd, result := m.modal.Update(msg, m.keys)
	form, isForm := next.(colorForm)

	switch result {
	case modalClose:
		if isForm && form.mode == formEdit && m.store != nil {
			m.store.CancelEdit()
		}
		m.modal = nil
		return m, cmd

	case modalSubmit:
		m.modal = next
		if m.store == nil {
			return m, nil
		}
		values := form.Values()
		if form.mode == formEdit {
			return m, commitCmd(m.ctx, m.store, values)
		}
		return m, createCmd(m.ctx, m.store, values)
	}

	m.modal = next
	if isForm && m.store != nil {
		if form.mode == formEdit {
			m.store.SetEditForm(form.Values())
		} else {
			m.store.SetDraft(form.Values())
		}
	}
	return m, cmd
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logging.Debug(logging.CatUI, "operation failed", "op", msg.op, "kind", colorapi.KindOf(msg.err))
		return m, nil
	}
	if form, ok := m.modal.(colorForm); ok {
		if (msg.op == opCreate && form.mode == formCreate) || (msg.op == opCommit && form.mode == formEdit) {
			m.modal = nil
		}
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	n := len(m.state.Records)
	if n == 0 {
		m.selected = 0
		return
	}
	next := m.selected + delta
	if next < 0 || next >= n {
		return
	}
	m.selected = next
}

func (m *Model) clampSelection() {
	n := len(m.state.Records)
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	}
}

func (m Model) selectedRecord() (colorapi.Color, bool) {
	if m.store == nil || m.selected < 0 || m.selected >= len(m.state.Records) {
		return colorapi.Color{}, false
	}
	return m.state.Records[m.selected], true
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		logging.Warn(logging.CatConfig, "save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
