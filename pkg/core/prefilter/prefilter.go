package prefilter

import (
	"strings"

	"finstmt/pkg/core/document"
	"finstmt/pkg/models"
)

// Result is the heuristic verdict for a single page.
type Result struct {
	Pass   bool
	Type   models.StatementType
	Reason string
}

// Screening reasons, stable for logs and tests.
const (
	ReasonEmptyOrShort       = "empty_or_short"
	ReasonNoTable            = "no_table"
	ReasonHeaderMatch        = "header_match_in_table_context"
	ReasonNonTargetHeader    = "table_non_target_header"
	ReasonPercentageAnalysis = "confirmed_percentage_analysis_table"
	ReasonMDAResults         = "md_a_results_section"
	ReasonMDACaption         = "md&a_caption_table"
	ReasonCashflowSummary    = "cashflow_summary_caption"
	ReasonPercentageOnly     = "percentage_only_table"
)

// Detector bundles the table heuristics and header matching into a single
// page screen.
type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	if cfg.MinPipeRows == 0 {
		cfg = DefaultConfig()
	}
	return &Detector{cfg: cfg}
}

// Evaluate screens one page of text. A page passes only when it holds a
// detectable table whose surrounding context matches a statement heading and
// trips none of the false-positive indicators.
func (d *Detector) Evaluate(text string) Result {
	if document.SignificantLength(text) < 30 {
		return Result{Reason: ReasonEmptyOrShort}
	}

	rawLines := strings.Split(text, "\n")
	hit := DetectTableBest(rawLines, "raw", d.cfg)
	lines := rawLines
	if hit == nil {
		norm := document.NormalizeText(text)
		normLines := strings.Split(norm, "\n")
		hit = DetectTableBest(normLines, "norm", d.cfg)
		lines = normLines
	}
	if hit == nil {
		return Result{Reason: ReasonNoTable}
	}

	window, tableRows := d.scanWindow(lines, hit)

	if reason := checkFalsePositiveIndicators(window); reason != "" {
		return Result{Reason: reason}
	}
	if isPercentageOnlyTable(tableRows) {
		return Result{Reason: ReasonPercentageOnly}
	}

	typ := earliestTargetType(window)
	if typ == models.NoStatement {
		return Result{Reason: ReasonNonTargetHeader}
	}
	return Result{Pass: true, Type: typ, Reason: ReasonHeaderMatch}
}

// scanWindow assembles the text the header matcher and screens look at: the
// context lines above the table plus the leading table rows, pipe characters
// stripped so multi-cell headings read as one phrase.
func (d *Detector) scanWindow(lines []string, hit *TableHit) (string, []string) {
	start := hit.StartIdx - d.cfg.ContextLinesBeforeTable
	if start < 0 {
		start = 0
	}
	context := lines[start:hit.StartIdx]

	end := hit.EndIdx
	if end < 0 || end >= len(lines) {
		end = len(lines) - 1
	}
	tableEnd := hit.StartIdx + d.cfg.TableScanRows
	if tableEnd > end+1 {
		tableEnd = end + 1
	}
	tableRows := lines[hit.StartIdx:tableEnd]

	var b strings.Builder
	for _, ln := range context {
		b.WriteString(ln)
		b.WriteByte('\n')
	}
	for _, ln := range tableRows {
		b.WriteString(stripPipes(ln))
		b.WriteByte('\n')
	}
	return b.String(), tableRows
}

var pipeReplacer = strings.NewReplacer("|", " ", "│", " ", "┃", " ", "┆", " ")

func stripPipes(line string) string {
	return strings.TrimSpace(pipeReplacer.Replace(line))
}
