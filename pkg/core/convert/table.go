// Package convert rewrites embedded HTML tables in page text as pipe-aligned
// markdown grids so the downstream heuristics and parsers see one table
// dialect. Colspan and rowspan are flattened through a virtual grid.
package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tableBlock = regexp.MustCompile(`(?is)<table\b.*?</table\s*>`)

// NormalizePageTables replaces every <table> block in the page text with its
// markdown rendering. Pages without table markup pass through untouched.
func NormalizePageTables(text string) string {
	if !strings.Contains(strings.ToLower(text), "<table") {
		return text
	}
	return tableBlock.ReplaceAllStringFunc(text, func(block string) string {
		md := TableToMarkdown(block)
		if md == "" {
			return block
		}
		return md
	})
}

// TableToMarkdown parses one HTML table and renders strictly aligned
// markdown. Returns "" when the fragment holds no rows.
func TableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}
	rows := doc.Find("tr")
	if rows.Length() == 0 {
		return ""
	}
	grid := buildGrid(rows)
	return renderGrid(grid)
}

// buildGrid flattens the table into a rectangular cell matrix. Spanned
// positions beyond the anchor cell are blanked so columns stay aligned;
// markdown has no span construct to carry them.
func buildGrid(rows *goquery.Selection) [][]string {
	rowCount := rows.Length()
	maxCols := 0
	rows.Each(func(_ int, tr *goquery.Selection) {
		cols := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cols += spanAttr(cell, "colspan")
		})
		if cols > maxCols {
			maxCols = cols
		}
	})

	grid := make([][]string, rowCount)
	for i := range grid {
		grid[i] = make([]string, maxCols)
	}

	rowIdx := 0
	rows.Each(func(_ int, tr *goquery.Selection) {
		colIdx := 0
		for colIdx < maxCols && grid[rowIdx][colIdx] != "" {
			colIdx++
		}
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			text := cleanCell(cell.Text())

			for r := 0; r < rowspan; r++ {
				for c := 0; c < colspan; c++ {
					rr, cc := rowIdx+r, colIdx+c
					if rr >= rowCount || cc >= maxCols {
						continue
					}
					if r == 0 && c == 0 {
						grid[rr][cc] = text
					} else {
						grid[rr][cc] = " "
					}
				}
			}
			colIdx += colspan
			for colIdx < maxCols && grid[rowIdx][colIdx] != "" {
				colIdx++
			}
		})
		rowIdx++
	})
	return grid
}

func spanAttr(cell *goquery.Selection, name string) int {
	n, _ := strconv.Atoi(cell.AttrOr(name, "1"))
	if n < 1 {
		n = 1
	}
	return n
}

func renderGrid(grid [][]string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for i, row := range grid {
		sb.WriteString("|")
		for _, cell := range row {
			if cell == "" {
				cell = " "
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
		if i == 0 {
			sb.WriteString("|")
			for range row {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func cleanCell(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "&#124;")
	text = normalizeNumber(text)
	if text == "" {
		return " "
	}
	return text
}

// normalizeNumber converts accounting-format numbers to standard numbers:
// parentheses become a leading minus, thousand separators and currency
// symbols are dropped. Non-numeric strings ("N/A", em dashes) pass through.
func normalizeNumber(text string) string {
	original := text
	if !strings.ContainsAny(text, "0123456789") {
		return original
	}

	negative := strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")")
	if negative {
		text = text[1 : len(text)-1]
	}
	replacer := strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "")
	text = strings.TrimSpace(replacer.Replace(text))

	for _, r := range text {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return original
		}
	}
	if negative && !strings.HasPrefix(text, "-") {
		text = "-" + text
	}
	return text
}
