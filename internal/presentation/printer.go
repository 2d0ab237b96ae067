package presentation

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"dsfetch/internal/domain"
)

// Printer writes the per-record progress lines and the final summary.
type Printer struct {
	Writer  io.Writer
	Verbose bool

	renderer *lipgloss.Renderer
}

func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{Writer: w, Verbose: verbose, renderer: lipgloss.NewRenderer(w)}
}

func (p *Printer) style(color lipgloss.Color, bold bool) lipgloss.Style {
	if p.renderer == nil {
		p.renderer = lipgloss.NewRenderer(p.Writer)
	}
	return p.renderer.NewStyle().Foreground(color).Bold(bold)
}

// PrintEvent renders one pipeline event. It matches domain.EventFunc.
func (p *Printer) PrintEvent(ev domain.Event) {
	line, ok := p.formatEvent(ev)
	if !ok {
		return
	}
	fmt.Fprintln(p.Writer, line)
}

func (p *Printer) formatEvent(ev domain.Event) (string, bool) {
	name := ev.Record.Filename
	switch ev.Kind {
	case domain.EventRecordStarted:
		return "", true
	case domain.EventFileExists:
		return fmt.Sprintf("%s exists", ev.Path), true
	case domain.EventFileMissing:
		if !p.Verbose {
			return "", false
		}
		return p.style(mutedColor, false).Render(fmt.Sprintf("%s does not exist", ev.Path)), true
	case domain.EventChecksumMatch:
		return p.style(successColor, false).Render(
			fmt.Sprintf("Success! MD5 checksum verified for %35s : %s (expected) == %s (downloaded)", name, ev.Expected, ev.Actual)), true
	case domain.EventChecksumMismatch:
		actual := ev.Actual
		if ev.Err != nil {
			actual = fmt.Sprintf("<unreadable: %v>", ev.Err)
		}
		return p.style(warningColor, false).Render(
			fmt.Sprintf("INVALID MD5 checksum for            %35s: %s (expected) != %s (downloaded)", name, ev.Expected, actual)), true
	case domain.EventSkipDownload:
		return fmt.Sprintf("Skipping download of verified file: %s", ev.Path), true
	case domain.EventDownloading:
		return fmt.Sprintf("Downloading file %s from %s", name, ev.Record.URL), true
	case domain.EventTransferFailed:
		return p.style(errorColor, false).Render(fmt.Sprintf("Transfer of %s failed: %v", name, ev.Err)), true
	case domain.EventNotVerified:
		return p.style(errorColor, true).Render(fmt.Sprintf("%s did not successfully download", name)), true
	default:
		return "", false
	}
}

// PrintSummary writes the aggregate line. An empty run reports no rate.
func (p *Printer) PrintSummary(result domain.RunResult) {
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, SummaryLine(result))
	fmt.Fprintln(p.Writer)
}

func SummaryLine(result domain.RunResult) string {
	rate, ok := result.Rate()
	if !ok {
		return fmt.Sprintf("No records processed : success_count = %d, fail_count = %d", result.Success, result.Fail)
	}
	return fmt.Sprintf("Successfully downloaded and verified %.2f%% : success_count = %d, fail_count = %d", rate, result.Success, result.Fail)
}
