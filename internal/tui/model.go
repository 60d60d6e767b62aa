// Package tui provides the BubbleTea-based note editor.
package tui

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/wallmemo/internal/adapter/output"
	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/planner"
	"github.com/jmylchreest/wallmemo/internal/scene"
	"github.com/jmylchreest/wallmemo/internal/store"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeInput
	ModeHelp
)

// inputAction is what a confirmed text input does.
type inputAction int

const (
	actionAppend inputAction = iota
	actionInsert
	actionReplace
)

func (a inputAction) prompt() string {
	switch a {
	case actionInsert:
		return "Insert: "
	case actionReplace:
		return "Replace: "
	default:
		return "Append: "
	}
}

// SaveFunc persists the notes and refreshes the wallpaper.
type SaveFunc func(notes []string) error

// Model is the main TUI model.
type Model struct {
	// Configuration
	cfg        *config.Config
	store      *store.Store
	save       SaveFunc
	copy       func(text string) error
	rowNumbers bool

	// Current mode
	mode Mode

	// Components
	list  list.Model
	input textinput.Model
	help  help.Model

	// State
	action      inputAction
	target      int
	dirty       bool
	confirmQuit bool
	width       int
	height      int
	ready       bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// noteItem wraps a note for the list component.
type noteItem struct {
	index int
	text  string
	label string
}

func (i noteItem) Title() string       { return i.label }
func (i noteItem) Description() string { return "" }
func (i noteItem) FilterValue() string { return i.text }

// noteDelegate renders one note per line.
type noteDelegate struct {
	list.DefaultDelegate
}

func newNoteDelegate() noteDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	return noteDelegate{DefaultDelegate: d}
}

// Render renders a list item, highlighting the selected note.
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(noteItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	style := d.DefaultDelegate.Styles.NormalTitle
	if index == m.Index() {
		style = d.DefaultDelegate.Styles.SelectedTitle
	}

	title := ni.Title()
	if ni.text == "" {
		title += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("(empty)")
	}

	itemWidth := m.Width() - style.GetHorizontalPadding()
	if r := []rune(title); itemWidth > 0 && len(r) > itemWidth {
		title = string(r[:itemWidth-1]) + "…"
	}

	fmt.Fprint(w, style.Render(title))
}

// New creates a new TUI model editing s.
func New(cfg *config.Config, s *store.Store, save SaveFunc) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if s == nil {
		s = store.New()
	}

	l := list.New(nil, newNoteDelegate(), 0, 0)
	l.Title = "wallmemo"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.CharLimit = 500

	m := Model{
		cfg:        cfg,
		store:      s,
		save:       save,
		rowNumbers: true,
		mode:       ModeList,
		list:       l,
		input:      input,
		help:       help.New(),
		keys:       DefaultKeyMap(),
	}
	m.copy = newClipboard(cfg.Clipboard).Copy
	m.list.SetItems(m.buildListItems())
	return m
}

// WithRowNumbers toggles the "N) " prefix shown for each note.
func (m Model) WithRowNumbers(on bool) Model {
	m.rowNumbers = on
	m.list.SetItems(m.buildListItems())
	return m
}

// Notes returns the notes as currently edited.
func (m Model) Notes() []string {
	return m.store.Notes()
}

// Dirty reports whether there are unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		m.input.Width = msg.Width - 12
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, setStatus("Copied to clipboard", false)

	case savedMsg:
		if msg.err != nil {
			return m, setStatus("Save failed: "+msg.err.Error(), true)
		}
		m.dirty = false
		m.confirmQuit = false
		return m, setStatus("Saved and rendered", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type savedMsg struct {
	err error
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry swallows every key except its own confirm/cancel.
	if m.mode == ModeInput {
		return m.handleInputKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			return m, setStatus("Unsaved changes: press q again to discard, w to save", true)
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}
	m.confirmQuit = false

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}
	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, hasSelection := m.selectedIndex()

	switch {
	case key.Matches(msg, m.keys.Append):
		return m.startInput(actionAppend, planner.Unset, "")

	case key.Matches(msg, m.keys.Insert):
		target := 0
		if hasSelection {
			target = selected
		}
		return m.startInput(actionInsert, target, "")

	case key.Matches(msg, m.keys.Edit):
		if !hasSelection {
			return m, nil
		}
		text, _ := m.store.At(selected)
		return m.startInput(actionReplace, selected, text)

	case key.Matches(msg, m.keys.Delete):
		if !hasSelection {
			return m, nil
		}
		m.apply(planner.Command{Op: planner.OpDelete, Index: selected}, selected)
		return m, setStatus(fmt.Sprintf("Deleted note %d", selected), false)

	case key.Matches(msg, m.keys.MoveUp):
		if !hasSelection || selected == 0 {
			return m, nil
		}
		m.move(selected, selected-1)
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		if !hasSelection || selected >= m.store.Len()-1 {
			return m, nil
		}
		m.move(selected, selected+1)
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveNotes()

	case key.Matches(msg, m.keys.Copy):
		if !hasSelection {
			return m, nil
		}
		text, _ := m.store.At(selected)
		return m, m.copyToClipboard(text)

	case key.Matches(msg, m.keys.CopyAllJSON):
		return m, m.copyFormatted(output.FormatJSON)

	case key.Matches(msg, m.keys.CopyAllYAML):
		return m, m.copyFormatted(output.FormatYAML)
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleInputKey handles keys while a note is being typed.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case tea.KeyEnter:
		text := planner.SingleLine(m.input.Value())
		m.mode = ModeList
		m.input.Blur()
		m.input.SetValue("")

		switch m.action {
		case actionAppend:
			m.apply(planner.Command{Op: planner.OpAppend, Text: text}, m.store.Len())
		case actionInsert:
			m.apply(planner.Command{Op: planner.OpInsert, Index: m.target, Text: text}, m.target)
		case actionReplace:
			m.apply(planner.Command{Op: planner.OpReplace, Index: m.target, Text: text}, m.target)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startInput(action inputAction, target int, value string) (tea.Model, tea.Cmd) {
	m.mode = ModeInput
	m.action = action
	m.target = target
	m.input.Prompt = action.prompt()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, textinput.Blink
}

// apply runs cmd against the store and selects the note at sel.
func (m *Model) apply(cmd planner.Command, sel int) {
	planner.Apply(m.store, []planner.Command{cmd})
	m.dirty = true
	m.refresh(sel)
}

func (m *Model) move(from, to int) {
	text, _ := m.store.At(from)
	planner.Apply(m.store, []planner.Command{
		{Op: planner.OpDelete, Index: from},
		{Op: planner.OpInsert, Index: to, Text: text},
	})
	m.dirty = true
	m.refresh(to)
}

func (m *Model) refresh(sel int) {
	m.list.SetItems(m.buildListItems())
	if n := m.store.Len(); n > 0 {
		m.list.Select(max(0, min(sel, n-1)))
	}
}

func (m Model) selectedIndex() (int, bool) {
	item, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return 0, false
	}
	return item.index, true
}

// buildListItems creates list items from the current notes.
func (m Model) buildListItems() []list.Item {
	notes := m.store.Notes()
	items := make([]list.Item, len(notes))
	opts := scene.Options{RowNumbers: m.rowNumbers}
	for i, n := range notes {
		items[i] = noteItem{index: i, text: n, label: scene.Label(i, n, opts)}
	}
	return items
}

func (m Model) saveNotes() tea.Cmd {
	if m.save == nil {
		return setStatus("Saving is not available", true)
	}
	notes := m.store.Notes()
	save := m.save
	return func() tea.Msg {
		return savedMsg{err: save(notes)}
	}
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	copyFn := m.copy
	return func() tea.Msg {
		return copyResultMsg{err: copyFn(text)}
	}
}

func (m Model) copyFormatted(format output.FormatType) tea.Cmd {
	var buf bytes.Buffer
	f := output.NewFormatter(format, output.DefaultFormatterOptions())
	if err := f.Format(&buf, output.Notes(m.store.Notes(), m.rowNumbers)); err != nil {
		return setStatus(fmt.Sprintf("Failed to format %s: %v", format, err), true)
	}
	return m.copyToClipboard(buf.String())
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeInput:
		return m.viewInput()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewInput() string {
	return m.list.View() + "\n" + m.input.View() + "\n" + m.buildKeybindBar(m.width, "input")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += "\n"

	s += sectionStyle.Render("Editing") + "\n"
	s += keyStyle.Render("  a") + "            Append a note\n"
	s += keyStyle.Render("  i") + "            Insert before the selected note\n"
	s += keyStyle.Render("  enter/e") + "      Replace the selected note\n"
	s += keyStyle.Render("  d") + "            Delete the selected note\n"
	s += keyStyle.Render("  K/J") + "          Move the selected note up/down\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  w") + "            Save notes and render the wallpaper\n"
	s += keyStyle.Render("  c") + "            Copy note to clipboard\n"
	s += keyStyle.Render("  C") + "            Copy all notes as JSON\n"
	s += keyStyle.Render("  alt+c") + "        Copy all notes as YAML\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list" or "input".
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit", 1},
			{"w", "save", 2},
			{"a", "append", 3},
			{"enter", "edit", 4},
			{"d", "delete", 5},
			{"?", "help", 6},
			{"i", "insert", 7},
			{"K/J", "move", 8},
			{"c", "copy", 9},
		}
	case "input":
		binds = []keybind{
			{"enter", "confirm", 1},
			{"esc", "cancel", 2},
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	plainLen := 0
	for _, b := range binds {
		plainItem := b.key + " " + b.desc
		testLen := plainLen + len(plainItem)
		if result != "" {
			testLen += len(separator)
		}
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += keyStyle.Render(b.key) + " " + b.desc
		plainLen = testLen
	}

	return style.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config     *config.Config
	Store      *store.Store
	Save       SaveFunc
	RowNumbers bool
}

// Run starts the editor and blocks until it exits. It returns the final
// model so callers can inspect unsaved edits.
func Run(opts RunOptions) (Model, error) {
	m := New(opts.Config, opts.Store, opts.Save).WithRowNumbers(opts.RowNumbers)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}
