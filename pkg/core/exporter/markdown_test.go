package exporter

import (
	"strings"
	"testing"

	"finstmt/pkg/models"
)

func sampleStatement() *models.Statement {
	return &models.Statement{
		StatementType: models.IncomeStatement,
		Units:         models.Units{Currency: "USD", Scale: "thousands"},
		Periods: []models.Period{
			{Label: "Fiscal 2024", Date: "2024-12-31", Year: 2024},
			{Label: "Fiscal 2023", Date: "2023-12-31", Year: 2023},
		},
		Rows: []models.Row{
			{Label: "REVENUES", IsSection: true, SectionID: "revenues",
				Values: map[string]*float64{"2024": nil, "2023": nil}},
			{Label: "Net revenue", SectionID: "revenues",
				Values: map[string]*float64{"2024": f(1234567), "2023": f(1100250.5)}},
			{Label: "Loss on disposal", SectionID: "revenues",
				Values: map[string]*float64{"2024": f(-4200), "2023": nil}},
		},
	}
}

func TestRenderMarkdownLayout(t *testing.T) {
	md := RenderMarkdown(sampleStatement())
	lines := strings.Split(strings.TrimSpace(md), "\n")

	if lines[0] != "| Line Item | 2023 | 2024 |" {
		t.Errorf("header = %q, want years ascending", lines[0])
	}
	if lines[1] != "|---|---|---|" {
		t.Errorf("separator = %q", lines[1])
	}
	if !strings.Contains(md, "| **REVENUES** | - | - |") {
		t.Errorf("section row should be bold with dash placeholders:\n%s", md)
	}
	if !strings.Contains(md, "| Net revenue | 1,100,250.50 | 1,234,567 |") {
		t.Errorf("numeric formatting wrong:\n%s", md)
	}
	if !strings.Contains(md, "| Loss on disposal | - | -4,200 |") {
		t.Errorf("negative and missing cells wrong:\n%s", md)
	}
}

func TestRenderReport(t *testing.T) {
	report, err := RenderReport([]*models.Statement{sampleStatement()})
	if err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	if !strings.Contains(report, "# Historical Financial Statements") {
		t.Error("report title missing")
	}
	if !strings.Contains(report, "## INCOME STATEMENT (Scale: thousands)") {
		t.Error("statement heading with scale missing")
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct{ in, want string }{
		{"123", "123"},
		{"1234", "1,234"},
		{"1234567", "1,234,567"},
		{"-98765", "-98,765"},
		{"1234.50", "1,234.50"},
		{"0", "0"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
