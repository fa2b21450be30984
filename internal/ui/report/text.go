package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"typelint/internal/core/ports"
	"typelint/internal/engine/finding"
)

// Text is the default terminal formatter: one block per violation, the
// duplicate suggestions, a per-check summary table and a PASS/FAIL line.
type Text struct {
	color bool
}

func NewText(color bool) *Text {
	return &Text{color: color}
}

func (t *Text) Name() string { return FormatText }

type textStyles struct {
	severity map[finding.Severity]lipgloss.Style
	location lipgloss.Style
	reason   lipgloss.Style
	heading  lipgloss.Style
	pass     lipgloss.Style
	fail     lipgloss.Style
}

func (t *Text) styles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	if !t.color {
		r = lipgloss.NewRenderer(io.Discard)
	}
	return textStyles{
		severity: map[finding.Severity]lipgloss.Style{
			finding.SeverityLow:      r.NewStyle().Foreground(lipgloss.Color("#64748B")),
			finding.SeverityMedium:   r.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true),
			finding.SeverityHigh:     r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
			finding.SeverityCritical: r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#B91C1C")).Bold(true),
		},
		location: r.NewStyle().Bold(true),
		reason:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("#64748B")),
		heading:  r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		pass:     r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		fail:     r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
	}
}

func (t *Text) Format(w io.Writer, result *ports.AnalysisResult) error {
	st := t.styles(w)
	var b strings.Builder

	for _, v := range result.Violations {
		loc := relativePath(result.Root, v.File)
		if v.Line > 0 {
			loc += ":" + strconv.Itoa(v.Line)
		}
		sev := st.severity[v.Severity].Render(fmt.Sprintf("%-8s", v.Severity))
		fmt.Fprintf(&b, "%s %s %s [%s]\n", sev, st.location.Render(loc), v.Message, v.Check)
		if v.Reason != "" {
			fmt.Fprintf(&b, "         %s\n", st.reason.Render(v.Reason))
		}
	}

	if len(result.Matches) > 0 {
		if len(result.Violations) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.heading.Render("Duplicate types") + "\n")
		for _, m := range result.Matches {
			fmt.Fprintf(&b, "  %s %s\n", st.severity[finding.SeverityLow].Render(string(m.Kind)+":"), m.Suggestion)
		}
	}

	if len(result.Violations) > 0 || len(result.Matches) > 0 {
		b.WriteString("\n")
		b.WriteString(summaryTable(result))
	}

	status := st.pass.Render("PASS")
	if !result.Passed {
		status = st.fail.Render("FAIL")
	}
	fmt.Fprintf(&b, "%s %d file(s) scanned, %d violation(s), %d duplicate suggestion(s) in %s\n",
		status, result.FilesScanned, len(result.Violations), len(result.Matches), result.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}

func summaryTable(result *ports.AnalysisResult) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Check", "Violations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	counts := finding.CountByCheck(result.Violations)
	if len(result.Matches) > 0 {
		counts[finding.CheckDuplicates] += len(result.Matches)
	}
	total := 0
	for _, check := range sortedKeys(counts) {
		table.Append([]string{check, strconv.Itoa(counts[check])})
		total += counts[check]
	}
	table.SetFooter([]string{"Total", strconv.Itoa(total)})
	table.Render()
	return buf.String()
}
