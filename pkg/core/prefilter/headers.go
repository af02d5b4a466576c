package prefilter

import (
	"regexp"
	"strings"

	"finstmt/pkg/models"
)

// Statement heading patterns. A qualifier like "consolidated", "condensed"
// or "unaudited" may precede the statement name, in any combination.
const qualifier = `(?:(?:consolidated|condensed|interim|unaudited|combined)\s+)*`

var (
	headerIS = regexp.MustCompile(`(?i)\b` + qualifier +
		`statements?\s+of\s+(?:operations|income|earnings|comprehensive\s+(?:income|loss))\b` +
		`|\b` + qualifier + `(?:income|profit\s+and\s+loss)\s+statements?\b`)
	headerBS = regexp.MustCompile(`(?i)\b` + qualifier +
		`balance\s+sheets?\b` +
		`|\b` + qualifier + `statements?\s+of\s+financial\s+position\b`)
	headerCF = regexp.MustCompile(`(?i)\b` + qualifier +
		`statements?\s+of\s+cash\s+flows?\b` +
		`|\b` + qualifier + `cash\s+flows?\s+statements?\b`)
)

type headerPattern struct {
	typ models.StatementType
	re  *regexp.Regexp
}

// Balance sheet is checked before income: "statements of operations and
// balance sheet data" style selected-data captions resolve by earliest offset
// anyway, so order only breaks exact ties.
var headerPatterns = []headerPattern{
	{models.BalanceSheet, headerBS},
	{models.IncomeStatement, headerIS},
	{models.CashFlow, headerCF},
}

// earliestTargetType returns the statement type whose heading appears at the
// lowest character offset in text, or NoStatement when none match.
func earliestTargetType(text string) models.StatementType {
	best := models.NoStatement
	bestPos := -1
	for _, hp := range headerPatterns {
		loc := hp.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestPos < 0 || loc[0] < bestPos {
			best, bestPos = hp.typ, loc[0]
		}
	}
	return best
}

// False-positive screening. These phrases mark MD&A commentary, selected-data
// summaries and percentage-analysis tables that carry statement headings but
// are not the statements themselves.

var percentagePhrases = []string{
	"as a percentage of net revenue",
	"as a percentage of revenue",
	"as a percentage of total revenue",
	"as a percentage of net sales",
	"as a percentage of total net revenue",
	"expressed as a percentage",
}

var derivedPhrases = []string{
	"derived from our consolidated statements",
	"derived from the consolidated statements",
	"derived from our consolidated financial statements",
	"derived from the consolidated financial statements",
	"the following table sets forth",
	"the table below sets forth",
}

var (
	setsForthPct = regexp.MustCompile(`(?i)sets?\s+forth[^.]{0,200}?percentage`)
	setsForthSel = regexp.MustCompile(`(?i)sets?\s+forth[^.]{0,200}?selected\s+(?:consolidated\s+)?(?:financial|statements?\s+of\s+operations)\s+data`)
	cfSummary    = regexp.MustCompile(`(?i)cash\s+flows?[^.]{0,160}?were\s+as\s+follows`)
	pctToken     = regexp.MustCompile(`%`)
	dollarToken  = regexp.MustCompile(`[$\x{20AC}\x{00A3}\x{00A5}]`)
)

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// checkFalsePositiveIndicators inspects the scan window for MD&A and
// percentage-analysis markers. Returns a non-empty reason when the page
// should be rejected regardless of any heading match.
func checkFalsePositiveIndicators(window string) string {
	lower := strings.ToLower(window)

	hasPct := containsAny(lower, percentagePhrases)
	hasDerived := containsAny(lower, derivedPhrases)

	head := lower
	if len(head) > 500 {
		head = head[:500]
	}
	if hasPct && (hasDerived || strings.Contains(head, "results of operations")) {
		return "confirmed_percentage_analysis_table"
	}
	if strings.Contains(head, "results of operations") && hasDerived {
		return "md_a_results_section"
	}
	if setsForthPct.MatchString(window) || setsForthSel.MatchString(window) {
		return "md&a_caption_table"
	}
	if cfSummary.MatchString(window) {
		return "cashflow_summary_caption"
	}
	return ""
}

// isPercentageOnlyTable reports whether the table rows are dominated by
// percentage values with no currency symbols at all, the signature of a
// margin-analysis table.
func isPercentageOnlyTable(tableRows []string) bool {
	joined := strings.Join(tableRows, "\n")
	pct := len(pctToken.FindAllString(joined, -1))
	dollars := len(dollarToken.FindAllString(joined, -1))
	return pct >= 5 && dollars == 0
}
