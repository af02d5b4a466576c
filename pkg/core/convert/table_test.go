package convert

import (
	"strings"
	"testing"
)

func TestTableToMarkdownBasic(t *testing.T) {
	html := `<table>
		<tr><th>Line Item</th><th>2024</th><th>2023</th></tr>
		<tr><td>Revenue</td><td>$1,200</td><td>$1,100</td></tr>
		<tr><td>Net loss</td><td>(300)</td><td>(250)</td></tr>
	</table>`

	md := TableToMarkdown(html)
	if !strings.Contains(md, "| Line Item | 2024 | 2023 |") {
		t.Errorf("header row missing:\n%s", md)
	}
	if !strings.Contains(md, "| --- | --- | --- |") {
		t.Errorf("separator missing:\n%s", md)
	}
	if !strings.Contains(md, "| Revenue | 1200 | 1100 |") {
		t.Errorf("currency and commas should be normalized:\n%s", md)
	}
	if !strings.Contains(md, "| Net loss | -300 | -250 |") {
		t.Errorf("parenthesized values should go negative:\n%s", md)
	}
}

func TestTableToMarkdownColspan(t *testing.T) {
	html := `<table>
		<tr><td colspan="2">Assets</td><td>2024</td></tr>
		<tr><td>Cash</td><td>and equivalents</td><td>500</td></tr>
	</table>`

	md := TableToMarkdown(html)
	lines := strings.Split(strings.TrimSpace(md), "\n")
	first := lines[0]
	if strings.Count(first, "|") != 4 {
		t.Errorf("colspan row should still have 3 columns: %q", first)
	}
}

func TestTableToMarkdownEmpty(t *testing.T) {
	if md := TableToMarkdown("<div>no table here</div>"); md != "" {
		t.Errorf("got %q, want empty", md)
	}
}

func TestNormalizePageTables(t *testing.T) {
	page := "CONSOLIDATED BALANCE SHEETS\n<table><tr><td>Total assets</td><td>9,000</td></tr></table>\ntrailing text"
	out := NormalizePageTables(page)
	if strings.Contains(out, "<table") {
		t.Errorf("table markup survived:\n%s", out)
	}
	if !strings.Contains(out, "| Total assets | 9000 |") {
		t.Errorf("markdown rendering missing:\n%s", out)
	}
	if !strings.Contains(out, "CONSOLIDATED BALANCE SHEETS") || !strings.Contains(out, "trailing text") {
		t.Errorf("surrounding text must survive:\n%s", out)
	}
}

func TestNormalizePageTablesPassthrough(t *testing.T) {
	page := "plain text page"
	if out := NormalizePageTables(page); out != page {
		t.Errorf("plain page modified: %q", out)
	}
}

func TestNormalizeNumberPassthrough(t *testing.T) {
	for _, s := range []string{"N/A", "—", "Total assets", "Note 4(a)"} {
		if got := normalizeNumber(s); got != s {
			t.Errorf("normalizeNumber(%q) = %q, want passthrough", s, got)
		}
	}
}
