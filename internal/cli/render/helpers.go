package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Color styles shared by renderers
var (
	nameStyle     = color.New(color.FgWhite, color.Bold)
	addressStyle  = color.New(color.FgWhite)
	faintStyle    = color.New(color.Faint)
	headerStyle   = color.New(color.FgCyan, color.Bold)
	successStyle  = color.New(color.FgGreen)
	warningStyle  = color.New(color.FgYellow)
	errorStyle    = color.New(color.FgRed)
	sectionHeader = color.New(color.Bold, color.FgHiWhite)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return errorStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// newTable creates a borderless table in the house style
func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.Style().Format.Header = text.FormatDefault

	if header != nil {
		styled := make(table.Row, len(header))
		for i, h := range header {
			styled[i] = sectionHeader.Sprint(h)
		}
		t.AppendHeader(styled)
	}
	return t
}

// orDash renders empty values as a faint dash
func orDash(s string) string {
	if s == "" {
		return faintStyle.Sprint("-")
	}
	return s
}
