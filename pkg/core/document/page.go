// Package document holds the page-level input model for the extraction
// pipeline. Pages are produced by the upstream PDF parsing service and are
// read-only once loaded.
package document

import (
	"fmt"
	"regexp"
	"strings"
)

// Page is one unit of source text with a stable zero-based index.
type Page struct {
	Index int    `json:"index"`
	Label string `json:"label,omitempty"` // human-facing page label, usually 1-based
	Text  string `json:"text"`
}

// PageSource links an emitted statement back to its originating page.
type PageSource struct {
	PageNumber int    `json:"page_number"`
	PageLabel  string `json:"page_label"`
}

var (
	dashVariants  = strings.NewReplacer("–", "-", "—", "-", "−", "-")
	hyphenWrap    = regexp.MustCompile(`(\w)-\s*\n\s*(\w)`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n{2,}`)
	nonSpace      = regexp.MustCompile(`\S`)
)

// NormalizeText unifies dash variants, rejoins hyphen-wrapped words and
// collapses whitespace runs. Used as a second detection pass when raw page
// lines yield no table hit.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = dashVariants.Replace(text)
	text = hyphenWrap.ReplaceAllString(text, "$1$2")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankLineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// SignificantLength counts non-whitespace characters. Pages below the
// prefilter's minimum are rejected without any further work.
func SignificantLength(text string) int {
	return len(nonSpace.FindAllString(text, -1))
}

// Annotate appends the page-number marker the classifier prompt relies on.
func Annotate(p Page, totalPages int) Page {
	label := p.Label
	if label == "" {
		label = fmt.Sprintf("%d", p.Index+1)
	}
	p.Text = fmt.Sprintf("%s\n\n[The page number is %s of %d]\n", p.Text, label, totalPages)
	return p
}
