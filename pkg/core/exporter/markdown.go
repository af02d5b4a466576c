package exporter

import (
	"fmt"
	"math"
	"strings"

	"finstmt/pkg/core/utils"
	"finstmt/pkg/models"
)

// RenderMarkdown renders one statement as a flat markdown table: a "Line
// Item" column followed by the years in ascending order. Section rows are
// bolded, missing cells show "-".
func RenderMarkdown(st *models.Statement) string {
	cols := periodColumns(st)
	if len(cols) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("| Line Item |")
	for _, c := range cols {
		sb.WriteString(" " + c + " |")
	}
	sb.WriteString("\n|---|")
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range st.Rows {
		label := row.Label
		if row.IsSection {
			label = "**" + label + "**"
		}
		sb.WriteString("| " + escapeCell(label) + " |")
		for _, c := range cols {
			sb.WriteString(" " + formatCell(row.Values[c]) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderReport renders all merged statements under their display titles.
// The result is checked for markdown well-formedness before it is returned.
func RenderReport(merged []*models.Statement) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Historical Financial Statements\n")
	for _, st := range merged {
		title := st.StatementType.Title()
		if st.Units.Scale != "" {
			title = fmt.Sprintf("%s (Scale: %s)", title, st.Units.Scale)
		}
		sb.WriteString("\n## " + title + "\n\n")
		sb.WriteString(RenderMarkdown(st))
	}

	report := sb.String()
	if !utils.ValidateMarkdown(report) {
		return "", fmt.Errorf("MARKDOWN_RENDER_FAILED: report did not parse")
	}
	return report, nil
}

// formatCell renders a numeric cell: thousands-grouped integers, two
// decimals otherwise, "-" for missing values.
func formatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	if *v == math.Trunc(*v) && math.Abs(*v) < 1e15 {
		return groupThousands(fmt.Sprintf("%.0f", *v))
	}
	return groupThousands(fmt.Sprintf("%.2f", *v))
}

// groupThousands inserts comma separators into the integer part of a
// plain decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}

	out := sb.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "&#124;")
}
