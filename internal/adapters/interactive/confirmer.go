package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// Confirmer asks before a signed batch is submitted. Non-interactive runs are confirmed automatically.
type Confirmer struct {
	config *config.RuntimeConfig
	prompt func(label string) (bool, error)
}

// NewConfirmer creates a confirmer backed by a promptui yes/no prompt
func NewConfirmer(cfg *config.RuntimeConfig) *Confirmer {
	return &Confirmer{config: cfg, prompt: askYesNo}
}

// ConfirmBroadcast summarizes the batch and asks to proceed
func (c *Confirmer) ConfirmBroadcast(ctx context.Context, batch *models.SignedBatch) (bool, error) {
	if c.config.NonInteractive {
		return true, nil
	}

	network := "unknown network"
	if c.config.Network != nil {
		network = c.config.Network.Name
	}
	label := fmt.Sprintf("Broadcast %d transactions to %s", batch.Len(), color.New(color.FgCyan, color.Bold).Sprint(network))
	return c.prompt(label)
}

func askYesNo(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ usecase.BroadcastConfirmer = (*Confirmer)(nil)
