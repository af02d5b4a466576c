// Package prefilter performs heuristic, no-model screening of page text:
// table block detection, statement header matching and false-positive
// screening. Pages that fail here never reach the model-backed stages.
package prefilter

import (
	"regexp"
	"strings"
)

// Config holds the detection thresholds.
type Config struct {
	MinPipeRows             int // pipe-delimited block qualifies at this many rows
	MinSpaceRows            int // whitespace-aligned block qualifies at this many rows
	MinSpaceCols            int // minimum column tokens per whitespace-aligned row
	ContextLinesBeforeTable int // scan window above the detected table
	TableScanRows           int // scan window into the detected table
}

// DefaultConfig mirrors the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinPipeRows:             3,
		MinSpaceRows:            4,
		MinSpaceCols:            2,
		ContextLinesBeforeTable: 14,
		TableScanRows:           80,
	}
}

// TableKind tags which strategy found the winning block.
type TableKind string

const (
	KindPipe  TableKind = "pipe"
	KindSpace TableKind = "space"
	KindHTML  TableKind = "html"
)

// TableHit describes the largest contiguous block that looks like a table.
type TableHit struct {
	Kind     TableKind
	StartIdx int
	EndIdx   int // -1 for html hits, which have no line extent
	Rows     int
	Source   string // "raw" or "norm"
}

const pipeChars = `[|\x{2502}\x{2503}\x{2506}]`

var (
	pipeRow = regexp.MustCompile(`^\s*` + pipeChars + `.*$`)
	pipeSep = regexp.MustCompile(`^\s*` + pipeChars + `?\s*:?-{3,}:?(?:\s*` + pipeChars + `\s*:?-{3,}:?)*\s*` + pipeChars + `?\s*$`)
	htmlTag = regexp.MustCompile(`(?i)<\s*(table|thead|tbody|tr|td)\b`)
	// at least two runs of >=2 whitespace chars separating non-empty tokens
	spaceCols  = regexp.MustCompile(`\S.{0,100}?\s{2,}\S`)
	spaceSplit = regexp.MustCompile(`\s{2,}`)
)

func isPipeLine(line string) bool {
	return pipeRow.MatchString(line) || pipeSep.MatchString(line)
}

// detectPipeBlocks finds runs of consecutive pipe-delimited lines.
func detectPipeBlocks(lines []string, minRows int) []TableHit {
	var hits []TableHit
	i, n := 0, len(lines)
	for i < n {
		if isPipeLine(lines[i]) {
			start, rows := i, 0
			for i < n && isPipeLine(lines[i]) {
				rows++
				i++
			}
			if rows >= minRows {
				hits = append(hits, TableHit{Kind: KindPipe, StartIdx: start, EndIdx: i - 1, Rows: rows})
			}
			continue
		}
		i++
	}
	return hits
}

// detectHTMLTable treats any embedded table markup as a single very-large hit.
func detectHTMLTable(lines []string) *TableHit {
	if !htmlTag.MatchString(strings.Join(lines, "\n")) {
		return nil
	}
	for idx, ln := range lines {
		if htmlTag.MatchString(ln) {
			return &TableHit{Kind: KindHTML, StartIdx: idx, EndIdx: -1, Rows: 99999}
		}
	}
	return nil
}

// detectSpaceTable finds the first run of whitespace-column-aligned lines
// long enough to qualify.
func detectSpaceTable(lines []string, minRows, minCols int) *TableHit {
	runStart, runLen := -1, 0
	for idx, ln := range lines {
		if spaceCols.MatchString(ln) {
			parts := 0
			for _, p := range spaceSplit.Split(strings.TrimSpace(ln), -1) {
				if p != "" {
					parts++
				}
			}
			if parts >= minCols {
				if runStart < 0 {
					runStart = idx
				}
				runLen++
				if runLen >= minRows {
					return &TableHit{Kind: KindSpace, StartIdx: runStart, EndIdx: idx, Rows: runLen}
				}
				continue
			}
		}
		runStart, runLen = -1, 0
	}
	return nil
}

// DetectTableBest tries all three strategies and keeps the hit spanning the
// most rows. Returns nil when no strategy meets its minimum.
func DetectTableBest(lines []string, source string, cfg Config) *TableHit {
	candidates := detectPipeBlocks(lines, cfg.MinPipeRows)
	if sp := detectSpaceTable(lines, cfg.MinSpaceRows, cfg.MinSpaceCols); sp != nil {
		candidates = append(candidates, *sp)
	}
	if html := detectHTMLTable(lines); html != nil {
		candidates = append(candidates, *html)
	}
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Rows > best.Rows {
			best = c
		}
	}
	best.Source = source
	return &best
}
