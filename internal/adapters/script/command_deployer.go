package script

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// deployedLine matches "<Name> deployed <address> success"
var deployedLine = regexp.MustCompile(`(.+)deployed\s(.+)\ssuccess$`)

// CommandDeployer deploys by running an external deploy script once per contract.
// The script receives the logical name and the comma-joined arguments.
type CommandDeployer struct {
	command     []string
	projectRoot string
	network     string
	log         *slog.Logger
}

// NewCommandDeployer creates a deployer for the configured deploy command
func NewCommandDeployer(cfg *config.RuntimeConfig, log *slog.Logger) *CommandDeployer {
	d := &CommandDeployer{
		command:     cfg.DeployCommand,
		projectRoot: cfg.ProjectRoot,
		log:         log.With("component", "CommandDeployer"),
	}
	if cfg.Network != nil {
		d.network = cfg.Network.Name
	}
	return d
}

// Deploy runs the script and parses the deployed address from its output
func (d *CommandDeployer) Deploy(ctx context.Context, entry models.DeploymentEntry, args []any) (*models.DeployedContract, error) {
	if len(d.command) == 0 {
		return nil, fmt.Errorf("%w: deploy command not configured", domain.ErrDeployFailed)
	}

	cmdArgs := append(append([]string{}, d.command[1:]...), entry.Name, JoinArgs(args))

	start := time.Now()
	d.log.Debug("running deploy command", "command", d.command[0], "args", cmdArgs)

	cmd := exec.CommandContext(ctx, d.command[0], cmdArgs...)
	cmd.Dir = d.projectRoot
	cmd.Env = append(os.Environ(), "PERPDEPLOY_MODE="+string(entry.Mode))
	if d.network != "" {
		cmd.Env = append(cmd.Env, "HARDHAT_NETWORK="+d.network)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	duration := time.Since(start)
	if err != nil {
		d.log.Error("deploy command failed", "name", entry.Name, "error", err, "stderr", stderr.String(), "duration", duration)
		return nil, fmt.Errorf("%w: %s: %v\n%s", domain.ErrDeployFailed, entry.Name, err, strings.TrimSpace(string(output)+stderr.String()))
	}

	address, err := ParseDeployOutput(string(output))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}

	d.log.Debug("deploy command completed", "name", entry.Name, "address", address, "duration", duration)
	return &models.DeployedContract{Address: address}, nil
}

// ParseDeployOutput extracts the address from the first output line containing "success"
func ParseDeployOutput(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, "success") {
			continue
		}
		match := deployedLine.FindStringSubmatch(line)
		if match == nil {
			return "", fmt.Errorf("%w: unexpected line %q", domain.ErrDeployOutput, line)
		}
		return strings.ToLower(strings.TrimSpace(match[2])), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDeployOutput, err)
	}
	return "", fmt.Errorf("%w: no success line", domain.ErrDeployOutput)
}

// JoinArgs renders arguments as the comma-separated list the deploy script expects
func JoinArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, ",")
}

var _ usecase.ContractDeployer = (*CommandDeployer)(nil)
