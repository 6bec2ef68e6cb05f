package verification

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

// CommandVerifier submits source verification through an external tool such as hardhat
type CommandVerifier struct {
	command     []string
	projectRoot string
	network     string
	log         *slog.Logger
}

// NewCommandVerifier creates a verifier for the configured verify command
func NewCommandVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *CommandVerifier {
	v := &CommandVerifier{
		command:     cfg.VerifyCommand,
		projectRoot: cfg.ProjectRoot,
		log:         log.With("component", "CommandVerifier"),
	}
	if cfg.Network != nil {
		v.network = cfg.Network.Name
	}
	return v
}

// Verify runs "<command> <address> <args...>". A contract the explorer already knows counts as verified.
func (v *CommandVerifier) Verify(ctx context.Context, address string, args []any) error {
	if len(v.command) == 0 {
		return fmt.Errorf("verify command not configured")
	}

	cmdArgs := append([]string{}, v.command[1:]...)
	cmdArgs = append(cmdArgs, address)
	for _, a := range args {
		cmdArgs = append(cmdArgs, fmt.Sprint(a))
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, v.command[0], cmdArgs...)
	cmd.Dir = v.projectRoot
	cmd.Env = os.Environ()
	if v.network != "" {
		cmd.Env = append(cmd.Env, "HARDHAT_NETWORK="+v.network)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	output := out.String()
	v.log.Debug("verify command finished", "address", address, "duration", time.Since(start), "output", output)

	if err != nil {
		if strings.Contains(strings.ToLower(output), "already verified") {
			return nil
		}
		return fmt.Errorf("verify %s: %w\n%s", address, err, strings.TrimSpace(output))
	}
	return nil
}
