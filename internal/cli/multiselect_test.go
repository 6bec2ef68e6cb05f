package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(m multiSelectModel, keys ...string) multiSelectModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(multiSelectModel)
	}
	return m
}

func TestMultiSelect(t *testing.T) {
	items := []string{"Vault", "VaultUtils", "PositionRouter"}

	tests := []struct {
		name      string
		keys      []string
		chosen    []string
		done      bool
		cancelled bool
	}{
		{"all selected by default", []string{"enter"}, items, true, false},
		{"toggle second", []string{"down", " ", "enter"}, []string{"Vault", "PositionRouter"}, true, false},
		{"cursor stays in range", []string{"up", "up", " ", "enter"}, []string{"VaultUtils", "PositionRouter"}, true, false},
		{"nothing selected blocks enter", []string{"a", "enter"}, nil, false, false},
		{"select all again", []string{"a", "a", "enter"}, items, true, false},
		{"quit cancels", []string{"q"}, items, true, true},
		{"escape cancels", []string{"esc"}, items, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(initialMultiSelectModel(items, "pick"), tt.keys...)
			assert.Equal(t, tt.done, m.done)
			assert.Equal(t, tt.cancelled, m.cancelled)
			assert.Equal(t, tt.chosen, m.chosen())
		})
	}
}

func TestMultiSelect_View(t *testing.T) {
	m := initialMultiSelectModel([]string{"Vault"}, "Pick contracts")
	view := m.View()
	assert.Contains(t, view, "Pick contracts")
	assert.Contains(t, view, "Vault")

	m = press(m, "enter")
	assert.Empty(t, m.View())
}

func TestSelectContracts_Empty(t *testing.T) {
	_, err := SelectContracts(nil, "pick")
	assert.Error(t, err)
}
