// Package output provides terminal output formatting for maturinctl with amber color theme.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/gridctl/maturinctl/pkg/actions"
)

// Printer handles terminal output with amber-themed styling.
//
// In workflow mode groups and warnings are also emitted as GitHub Actions
// workflow commands so the job log collapses and annotates them.
type Printer struct {
	out      io.Writer
	logger   *log.Logger
	isTTY    bool
	workflow *actions.Workflow
	inGroup  bool
}

// New creates a Printer writing to stdout with amber theme.
func New() *Printer {
	p := NewWithWriter(os.Stdout)
	p.SetWorkflow(actions.IsRunning())
	return p
}

// NewWithWriter creates a Printer with a custom writer.
func NewWithWriter(w io.Writer) *Printer {
	isTTY := isTerminal(w)

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly, // HH:MM:SS
	})

	if isTTY {
		logger.SetStyles(amberStyles())
	}

	return &Printer{
		out:    w,
		logger: logger,
		isTTY:  isTTY,
	}
}

// isTerminal checks if the writer is a TTY (for color support).
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// SetWorkflow toggles emission of GitHub Actions workflow commands.
func (p *Printer) SetWorkflow(enabled bool) {
	p.workflow = nil
	if enabled {
		p.workflow = actions.NewWorkflow(p.out)
	}
}

// Writer returns the underlying writer, e.g. for streaming child process output.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// IsTTY reports whether output goes to an interactive terminal.
func (p *Printer) IsTTY() bool {
	return p.isTTY
}

// Info logs an info message with optional key-value pairs.
func (p *Printer) Info(msg string, keyvals ...any) {
	p.logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func (p *Printer) Warn(msg string, keyvals ...any) {
	if p.workflow != nil {
		p.workflow.Warning(msg)
		return
	}
	p.logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func (p *Printer) Error(msg string, keyvals ...any) {
	if p.workflow != nil {
		p.workflow.Error(msg)
		return
	}
	p.logger.Error(msg, keyvals...)
}

// Debug logs a debug message with optional key-value pairs.
func (p *Printer) Debug(msg string, keyvals ...any) {
	p.logger.Debug(msg, keyvals...)
}

// SetDebug enables debug-level logging.
func (p *Printer) SetDebug(enabled bool) {
	if enabled {
		p.logger.SetLevel(log.DebugLevel)
	} else {
		p.logger.SetLevel(log.InfoLevel)
	}
}

// StartGroup opens a collapsible section. An already open group is closed
// first, since the runner does not nest groups.
func (p *Printer) StartGroup(title string) {
	if p.inGroup {
		p.EndGroup()
	}
	p.inGroup = true
	if p.workflow != nil {
		p.workflow.Group(title)
		return
	}
	p.Section(title)
}

// EndGroup closes the current section.
func (p *Printer) EndGroup() {
	if !p.inGroup {
		return
	}
	p.inGroup = false
	if p.workflow != nil {
		p.workflow.EndGroup()
	}
}

// Banner prints the tool name with version information.
func (p *Printer) Banner(ver string) {
	if !p.isTTY {
		fmt.Fprintf(p.out, "maturinctl %s\n\n", ver)
		return
	}

	amber := lipgloss.NewStyle().Foreground(ColorAmber).Bold(true)
	white := lipgloss.NewStyle().Foreground(ColorWhite)
	muted := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(p.out, "%s%s\n", amber.Render("maturin"), white.Render("ctl"))
	fmt.Fprintf(p.out, "  %s %s\n\n", muted.Render("version"), amber.Render(ver))
}

// Print writes a message directly to output without formatting.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a message with newline directly to output.
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}
