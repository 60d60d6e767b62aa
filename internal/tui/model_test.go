package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wallmemo/internal/config"
	"github.com/jmylchreest/wallmemo/internal/store"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, notes ...string) Model {
	t.Helper()
	m := New(config.DefaultConfig(), store.New(notes...), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var updated tea.Model = m
	for _, msg := range msgs {
		updated, cmd = updated.(Model).Update(msg)
	}
	return updated.(Model), cmd
}

// step runs cmd and feeds its message back, as the program loop would.
func step(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return m, nil
	}
	updated, next := m.Update(cmd())
	return updated.(Model), next
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	m, _ = step(t, m, cmd)
	return m
}

func TestModel_Append(t *testing.T) {
	m := newTestModel(t, "first")

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, ModeInput, m.mode)

	m, _ = press(t, m, runes("buy milk"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, []string{"first", "buy milk"}, m.Notes())
	assert.True(t, m.Dirty())
}

func TestModel_InsertBeforeSelected(t *testing.T) {
	m := newTestModel(t, "a", "b")
	m, _ = press(t, m, runes("j"), runes("i"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"a", "x", "b"}, m.Notes())
}

func TestModel_ReplaceSelected(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")
	m, _ = press(t, m, runes("j"), runes("e"))
	assert.Equal(t, "b", m.input.Value())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, runes("B2"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"a", "B2", "c"}, m.Notes())
}

func TestModel_CancelInput(t *testing.T) {
	m := newTestModel(t, "a")
	m, _ = press(t, m, runes("a"), runes("nope"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, []string{"a"}, m.Notes())
	assert.False(t, m.Dirty())
}

func TestModel_Delete(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")
	m, _ = press(t, m, runes("G"), runes("d"))
	assert.Equal(t, []string{"a", "b"}, m.Notes())

	idx, ok := m.selectedIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	m, _ = press(t, m, runes("d"), runes("d"), runes("d"))
	assert.Empty(t, m.Notes())
}

func TestModel_Move(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")

	m, _ = press(t, m, runes("J"))
	assert.Equal(t, []string{"b", "a", "c"}, m.Notes())
	idx, _ := m.selectedIndex()
	assert.Equal(t, 1, idx)

	m, _ = press(t, m, runes("K"), runes("K"))
	assert.Equal(t, []string{"a", "b", "c"}, m.Notes())
}

func TestModel_Save(t *testing.T) {
	var saved []string
	m := New(config.DefaultConfig(), store.New("a"), func(notes []string) error {
		saved = notes
		return nil
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m, _ = press(t, m, runes("a"), runes("b"), tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Dirty())

	m, cmd := press(t, m, runes("w"))
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"a", "b"}, saved)
	assert.False(t, m.Dirty())
}

func TestModel_SaveFailureKeepsDirty(t *testing.T) {
	m := New(config.DefaultConfig(), store.New("a"), func([]string) error {
		return errors.New("disk full")
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m, _ = press(t, m, runes("d"))
	m, cmd := press(t, m, runes("w"))
	m, cmd = step(t, m, cmd)
	m = drain(t, m, cmd)
	assert.True(t, m.Dirty())
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "disk full")
}

func TestModel_QuitConfirmsWhenDirty(t *testing.T) {
	m := newTestModel(t, "a")
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m, _ = press(t, m, runes("d"))
	m, cmd = press(t, m, runes("q"))
	assert.True(t, m.confirmQuit)
	_, isStatus := cmd().(statusMsg)
	assert.True(t, isStatus)

	_, cmd = press(t, m, runes("q"))
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_CopyAllJSON(t *testing.T) {
	m := newTestModel(t, "alpha", "beta")
	var copied string
	m.copy = func(text string) error {
		copied = text
		return nil
	}

	m, cmd := press(t, m, runes("C"))
	m = drain(t, m, cmd)
	assert.Contains(t, copied, `"label": "0) alpha"`)
	assert.Contains(t, copied, `"text": "beta"`)
}

func TestModel_CopyNote(t *testing.T) {
	m := newTestModel(t, "alpha", "beta")
	var copied string
	m.copy = func(text string) error {
		copied = text
		return nil
	}

	m, cmd := press(t, m, runes("j"), runes("c"))
	m = drain(t, m, cmd)
	assert.Equal(t, "beta", copied)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, "alpha")
	assert.Contains(t, m.View(), "0) alpha")

	m, _ = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = New(nil, nil, nil)
	assert.Equal(t, "Initializing...", m.View())
}

func TestBuildKeybindBar_FitsWidth(t *testing.T) {
	m := newTestModel(t)
	bar := m.buildKeybindBar(20, "list")
	assert.NotEmpty(t, bar)
	assert.False(t, strings.Contains(bar, "insert"))
}
