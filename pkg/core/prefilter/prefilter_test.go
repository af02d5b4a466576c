package prefilter

import (
	"strings"
	"testing"

	"finstmt/pkg/models"
)

func TestDetectPipeBlocksBoundary(t *testing.T) {
	two := []string{"| a | b |", "| 1 | 2 |"}
	if hits := detectPipeBlocks(two, 3); len(hits) != 0 {
		t.Errorf("2 pipe rows should not qualify, got %d hits", len(hits))
	}
	three := []string{"| a | b |", "|---|---|", "| 1 | 2 |"}
	hits := detectPipeBlocks(three, 3)
	if len(hits) != 1 {
		t.Fatalf("3 pipe rows should qualify, got %d hits", len(hits))
	}
	if hits[0].Rows != 3 || hits[0].StartIdx != 0 || hits[0].EndIdx != 2 {
		t.Errorf("unexpected hit %+v", hits[0])
	}
}

func TestDetectSpaceTable(t *testing.T) {
	lines := []string{
		"Revenue            1,200    1,100",
		"Cost of revenue      400      380",
		"Gross profit         800      720",
		"Operating income     300      260",
	}
	hit := detectSpaceTable(lines, 4, 2)
	if hit == nil {
		t.Fatal("4 aligned rows should qualify")
	}
	if hit.Rows != 4 {
		t.Errorf("Rows = %d, want 4", hit.Rows)
	}
	if detectSpaceTable(lines[:3], 4, 2) != nil {
		t.Error("3 aligned rows should not qualify")
	}
}

func TestDetectHTMLTable(t *testing.T) {
	lines := []string{"intro text", "<table><tr><td>1</td></tr></table>"}
	hit := detectHTMLTable(lines)
	if hit == nil {
		t.Fatal("embedded table markup should be detected")
	}
	if hit.Rows != 99999 || hit.StartIdx != 1 {
		t.Errorf("unexpected hit %+v", hit)
	}
	if detectHTMLTable([]string{"no markup here"}) != nil {
		t.Error("plain text should not produce an html hit")
	}
}

func TestEvaluateStatementPages(t *testing.T) {
	detector := NewDetector(DefaultConfig())

	tests := []struct {
		name     string
		heading  string
		wantType models.StatementType
	}{
		{"income", "CONSOLIDATED STATEMENTS OF OPERATIONS", models.IncomeStatement},
		{"balance", "Condensed Consolidated Balance Sheets", models.BalanceSheet},
		{"cashflow", "Consolidated Statements of Cash Flows", models.CashFlow},
		{"comprehensive", "Statements of Comprehensive Income", models.IncomeStatement},
	}
	table := strings.Join([]string{
		"| Line Item | 2023 | 2022 |",
		"|---|---|---|",
		"| Revenue | $ 1,200 | $ 1,100 |",
		"| Net income | $ 300 | $ 260 |",
	}, "\n")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := detector.Evaluate(tt.heading + "\n(In thousands)\n" + table)
			if !res.Pass {
				t.Fatalf("Pass = false, reason %q", res.Reason)
			}
			if res.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", res.Type, tt.wantType)
			}
		})
	}
}

func TestEvaluateEarliestHeaderWins(t *testing.T) {
	detector := NewDetector(DefaultConfig())
	text := strings.Join([]string{
		"CONSOLIDATED BALANCE SHEETS",
		"see also statements of operations",
		"| Assets | 2023 | 2022 |",
		"|---|---|---|",
		"| Cash | $ 500 | $ 450 |",
	}, "\n")
	res := detector.Evaluate(text)
	if !res.Pass || res.Type != models.BalanceSheet {
		t.Errorf("got %+v, want balance sheet by earliest offset", res)
	}
}

func TestEvaluateRejections(t *testing.T) {
	detector := NewDetector(DefaultConfig())

	t.Run("short page", func(t *testing.T) {
		res := detector.Evaluate("  \n\n 17 \n")
		if res.Pass || res.Reason != ReasonEmptyOrShort {
			t.Errorf("got %+v, want %s", res, ReasonEmptyOrShort)
		}
	})

	t.Run("prose without table", func(t *testing.T) {
		res := detector.Evaluate(strings.Repeat("Our consolidated statements of operations reflect seasonality. ", 5))
		if res.Pass || res.Reason != ReasonNoTable {
			t.Errorf("got %+v, want %s", res, ReasonNoTable)
		}
	})

	t.Run("percentage analysis table", func(t *testing.T) {
		text := strings.Join([]string{
			"Results of Operations",
			"The following data has been derived from our consolidated statements of operations",
			"expressed as a percentage of net revenue for the periods indicated.",
			"| Line Item | 2023 | 2022 |",
			"|---|---|---|",
			"| Revenue | 100.0% | 100.0% |",
			"| Cost of revenue | 38.2% | 40.1% |",
			"| Gross margin | 61.8% | 59.9% |",
		}, "\n")
		res := detector.Evaluate(text)
		if res.Pass {
			t.Fatal("percentage analysis page should be rejected")
		}
		if res.Reason != ReasonPercentageAnalysis {
			t.Errorf("Reason = %s, want %s", res.Reason, ReasonPercentageAnalysis)
		}
	})

	t.Run("percentage only table", func(t *testing.T) {
		text := strings.Join([]string{
			"Consolidated Statements of Operations Data",
			"| Line Item | 2023 | 2022 |",
			"|---|---|---|",
			"| Revenue | 100.0% | 100.0% |",
			"| Cost | 40.0% | 41.0% |",
			"| Gross | 60.0% | 59.0% |",
		}, "\n")
		res := detector.Evaluate(text)
		if res.Pass || res.Reason != ReasonPercentageOnly {
			t.Errorf("got %+v, want %s", res, ReasonPercentageOnly)
		}
	})

	t.Run("table with non-target heading", func(t *testing.T) {
		text := strings.Join([]string{
			"Quarterly Backlog Summary",
			"| Region | 2023 | 2022 |",
			"|---|---|---|",
			"| Americas | $ 10 | $ 9 |",
		}, "\n")
		res := detector.Evaluate(text)
		if res.Pass || res.Reason != ReasonNonTargetHeader {
			t.Errorf("got %+v, want %s", res, ReasonNonTargetHeader)
		}
	})
}

func TestCheckFalsePositiveIndicators(t *testing.T) {
	if r := checkFalsePositiveIndicators("the following table sets forth selected consolidated financial data"); r != ReasonMDACaption {
		t.Errorf("got %q, want %s", r, ReasonMDACaption)
	}
	if r := checkFalsePositiveIndicators("our cash flows from operating activities were as follows"); r != ReasonCashflowSummary {
		t.Errorf("got %q, want %s", r, ReasonCashflowSummary)
	}
	if r := checkFalsePositiveIndicators("CONSOLIDATED BALANCE SHEETS\nAssets"); r != "" {
		t.Errorf("clean heading flagged as %q", r)
	}
}
