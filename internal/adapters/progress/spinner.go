package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// SpinnerProgress reports run progress with a spinner when interactive and plain lines otherwise
type SpinnerProgress struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	stage       usecase.ExecutionStage
	stageStart  time.Time
}

// NewSpinnerProgress creates a progress reporter writing to out
func NewSpinnerProgress(out io.Writer, interactive bool) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgress{
		out:         out,
		interactive: interactive,
		spinner:     s,
	}
}

// OnProgress handles progress events
func (p *SpinnerProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.Stage != p.stage {
		p.stage = event.Stage
		p.stageStart = time.Now()
	}

	message := event.Message
	if event.Total > 0 {
		message = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}

	if !p.interactive {
		if message != "" {
			fmt.Fprintln(p.out, message)
		}
		return
	}

	if event.Stage == usecase.StageCompleted {
		p.stop()
		color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", message)
		return
	}

	if event.Spinner {
		p.spinner.Suffix = fmt.Sprintf(" %s %s", color.New(color.FgYellow).Sprint(event.Stage), message)
		if !p.spinner.Active() {
			p.spinner.Start()
		}
		return
	}

	p.stop()
	fmt.Fprintf(p.out, "%s %s %s\n", stageIcon(event.Stage), color.New(color.FgCyan).Sprint(event.Stage), message)
}

// Info prints an info message
func (p *SpinnerProgress) Info(message string) {
	p.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (p *SpinnerProgress) Error(message string) {
	p.print(color.New(color.FgRed), message)
}

// Elapsed returns how long the current stage has been running
func (p *SpinnerProgress) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stageStart.IsZero() {
		return 0
	}
	return time.Since(p.stageStart).Round(time.Millisecond)
}

func (p *SpinnerProgress) print(c *color.Color, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasActive := p.interactive && p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}

	c.Fprintln(p.out, message)

	if wasActive {
		p.spinner.Start()
	}
}

func (p *SpinnerProgress) stop() {
	if p.spinner.Active() {
		p.spinner.Stop()
	}
}

func stageIcon(stage usecase.ExecutionStage) string {
	switch stage {
	case usecase.StageDeploying, usecase.StageBroadcasting:
		return "●"
	case usecase.StageVerifying:
		return "◎"
	default:
		return "○"
	}
}

var _ usecase.ProgressSink = (*SpinnerProgress)(nil)
