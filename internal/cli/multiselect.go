package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
)

// multiSelectModel is the bubbletea model for picking contracts of a stage
type multiSelectModel struct {
	items     []string
	cursor    int
	selected  []bool
	title     string
	done      bool
	cancelled bool
}

// initialMultiSelectModel creates the model with every item selected
func initialMultiSelectModel(items []string, title string) multiSelectModel {
	selected := make([]bool, len(items))
	for i := range selected {
		selected[i] = true
	}
	return multiSelectModel{
		items:    items,
		selected: selected,
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := !m.allSelected()
		for i := range m.selected {
			m.selected[i] = all
		}
	case "enter":
		if len(m.chosen()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		fmt.Fprintf(&b, "%s %s %s\n", cursor, checkbox, item)
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

func (m multiSelectModel) allSelected() bool {
	for _, s := range m.selected {
		if !s {
			return false
		}
	}
	return true
}

// chosen returns the selected items in their original order
func (m multiSelectModel) chosen() []string {
	var out []string
	for i, item := range m.items {
		if m.selected[i] {
			out = append(out, item)
		}
	}
	return out
}

// SelectContracts shows a multi-select interface and returns the chosen names in order
func SelectContracts(names []string, title string) ([]string, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no contracts to select")
	}

	finalModel, err := tea.NewProgram(initialMultiSelectModel(names, title)).Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}

	return m.chosen(), nil
}
