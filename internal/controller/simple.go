package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "luaveil.dev/pkg/luaveil/internal/model"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	addStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// SimpleUI implements UI by printing to the command's output.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a new SimpleUI. Styling is applied only when color is
// true.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// NewUI returns the UI used by the CLI.
func NewUI(cmd *cobra.Command, color bool) UI {
	return NewSimpleUI(cmd, color)
}

// DisplayRunInfo announces a batch.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	verify := ""
	if info.Verify {
		verify = ", verifying"
	}

	s.printf("Obfuscating %d script(s) at level %s with %d worker(s), seed %d%s\n",
		info.Scripts, info.Level, info.Threads, info.Seed, verify)
	s.printf("%s\n", s.style(faintStyle, "run "+info.RunID))
}

// DisplayResults prints one table row per script followed by any errors.
func (s *SimpleUI) DisplayResults(ctx context.Context, results []m.Result) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", s.renderResultsTable(results))

	for _, r := range results {
		if r.Err != nil {
			s.printf("%s %s: %v\n", s.style(failStyle, "error"), r.Source, r.Err)
		}

		if r.Detail != "" {
			s.printf("%s %s: %s\n", s.style(failStyle, r.Verify.String()), r.Source, r.Detail)
		}
	}
}

func (s *SimpleUI) renderResultsTable(results []m.Result) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Script", "Output", "Size", "Ratio", "Entropy", "Verify", "Time"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	failed := 0
	inBytes, outBytes := 0, 0

	for _, r := range results {
		if r.Err != nil {
			failed++

			table.Append([]string{string(r.Source), s.style(failStyle, "failed"), "-", "-", "-", "-", "-"})

			continue
		}

		inBytes += r.InSize
		outBytes += r.Metrics.SizeBytes

		table.Append([]string{
			string(r.Source),
			string(r.Output),
			fmt.Sprintf("%d -> %d", r.InSize, r.Metrics.SizeBytes),
			fmt.Sprintf("%.1fx", r.Metrics.SizeRatio),
			fmt.Sprintf("%.2f", r.Metrics.Entropy),
			s.verifyLabel(r.Verify),
			r.Duration.Round(time.Microsecond).String(),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(results)),
		fmt.Sprintf("Failed %d", failed),
		fmt.Sprintf("%d -> %d", inBytes, outBytes),
		"", "", "", "",
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) verifyLabel(v m.VerifyStatus) string {
	switch v {
	case m.Equivalent:
		return s.style(okStyle, v.String())
	case m.Diverged, m.VerifyFailed:
		return s.style(failStyle, v.String())
	default:
		return v.String()
	}
}

// DisplayDiff prints a unified diff between a script and its obfuscation.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, before, after string) {
	if err := ctx.Err(); err != nil {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: string(path),
		ToFile:   string(path.Obfuscated()),
		Context:  1,
	})
	if err != nil {
		s.printf("diff %s: %v\n", path, err)
		return
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			s.printf("%s", line)
		case strings.HasPrefix(line, "+"):
			s.printf("%s", s.styleLine(addStyle, line))
		case strings.HasPrefix(line, "-"):
			s.printf("%s", s.styleLine(delStyle, line))
		default:
			s.printf("%s", line)
		}
	}
}

// DisplayScript prints script text verbatim.
func (s *SimpleUI) DisplayScript(ctx context.Context, script string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", script)

	if !strings.HasSuffix(script, "\n") {
		s.printf("\n")
	}
}

// DisplayLevels prints the severity levels and their passes.
func (s *SimpleUI) DisplayLevels(ctx context.Context, levels []LevelInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Level", "Name", "Passes", "Control flow", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, l := range levels {
		cf := "-"
		if l.ControlFlow > 0 {
			cf = fmt.Sprintf("%.0f%%", l.ControlFlow*100)
		}

		table.Append([]string{
			fmt.Sprintf("%d", int(l.Level)),
			l.Level.Name(),
			strings.Join(l.Passes, ", "),
			cf,
			l.Level.Description(),
		})
	}

	table.Render()
	s.printf("%s", tableBuffer.String())
}

// DisplaySession prints one slot of the saved session.
func (s *SimpleUI) DisplaySession(ctx context.Context, session m.Session, part SessionPart) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch part {
	case SessionInput:
		s.DisplayScript(ctx, session.Input)
	case SessionLevel:
		s.printf("%s\n", session.Level)
	default:
		s.DisplayScript(ctx, session.Output)
	}
}

func (s *SimpleUI) style(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}

	return st.Render(text)
}

// styleLine styles a line while keeping its trailing newline unstyled.
func (s *SimpleUI) styleLine(st lipgloss.Style, line string) string {
	body, nl := strings.CutSuffix(line, "\n")

	out := s.style(st, body)
	if nl {
		out += "\n"
	}

	return out
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
