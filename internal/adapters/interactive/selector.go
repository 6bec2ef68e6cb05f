package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// SelectorAdapter handles interactive selection of address book entries
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectEntry asks the user to pick one address book entry
func (s *SelectorAdapter) SelectEntry(ctx context.Context, entries []models.AddressEntry, prompt string) (*models.AddressEntry, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to select from")
	}
	if len(entries) == 1 {
		return &entries[0], nil
	}

	options := formatEntryOptions(entries)
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, type to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              12,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(entryNames(entries)),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return &entries[index], nil
}

// formatEntryOptions renders "Name (address)" lines, marking placeholders
func formatEntryOptions(entries []models.AddressEntry) []string {
	options := make([]string, len(entries))
	for i, e := range entries {
		name := color.New(color.FgWhite, color.Bold).Sprint(e.Name)
		if e.Address == "" {
			options[i] = fmt.Sprintf("%s %s", name, color.New(color.FgYellow).Sprint("[empty]"))
			continue
		}
		options[i] = fmt.Sprintf("%s (%s)", name, color.New(color.FgBlue).Sprint(e.Address))
	}
	return options
}

func entryNames(entries []models.AddressEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.EntrySelector = (*SelectorAdapter)(nil)
