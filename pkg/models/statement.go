// Package models defines the structured financial statement schema shared by
// the classification, extraction, normalization and export stages.
package models

import "strings"

// StatementType identifies one of the three primary financial statements.
type StatementType string

const (
	IncomeStatement StatementType = "income_statement"
	BalanceSheet    StatementType = "balance_sheet"
	CashFlow        StatementType = "cash_flow"
	NoStatement     StatementType = "none"
)

// ParseStatementType maps classifier wire labels onto the canonical enum.
// The classifier replies with loose labels ("balance sheet", "cashflow").
func ParseStatementType(s string) StatementType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bs", "balance_sheet", "balance sheet":
		return BalanceSheet
	case "is", "income_statement", "income statement":
		return IncomeStatement
	case "cf", "cash_flow", "cash flow", "cashflow":
		return CashFlow
	default:
		return NoStatement
	}
}

// Priority orders statement types for downstream processing: income
// statement first, then balance sheet, then cash flow, then everything else.
func (t StatementType) Priority() int {
	switch t {
	case IncomeStatement:
		return 0
	case BalanceSheet:
		return 1
	case CashFlow:
		return 2
	default:
		return 99
	}
}

// Title renders the display heading used by the exporter.
func (t StatementType) Title() string {
	switch t {
	case IncomeStatement:
		return "INCOME STATEMENT"
	case BalanceSheet:
		return "BALANCE SHEET"
	case CashFlow:
		return "CASH FLOW STATEMENT"
	default:
		return strings.ToUpper(strings.ReplaceAll(string(t), "_", " "))
	}
}

// Period is one reporting column within a statement. Label is verbatim from
// the source; Year must be derived unambiguously; Date defaults to YYYY-12-31
// when only a year is known.
type Period struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Year  int    `json:"year"`
}

// Row is one labeled line of a statement. Values are keyed by the bare year
// portion of a period, never the full period label. SectionID is never empty
// after normalization: every row inherits the most recently seen section
// header's id, or "document_opening" when none has been seen yet.
type Row struct {
	Label     string              `json:"label"`
	IsSection bool                `json:"is_section"`
	SectionID string              `json:"section_id"`
	Values    map[string]*float64 `json:"values"`
}

// Units carries the detected currency and scale of a statement.
type Units struct {
	Currency string `json:"currency"`
	Scale    string `json:"scale"`
}

// Statement is a schema-validated financial table. Row order is significant:
// grouping rows by SectionID while preserving original order must reproduce
// the source table's header/data grouping.
type Statement struct {
	StatementType StatementType `json:"statement_type"`
	Units         Units         `json:"units"`
	Periods       []Period      `json:"periods"`
	Rows          []Row         `json:"rows"`
	Notes         []string      `json:"notes,omitempty"`
}

// Usage records token counts for one model call, kept for observability only.
type Usage struct {
	TotalTokens      int     `json:"total_tokens"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalCost        float64 `json:"total_cost"`
}

// ClassificationResult is the per-page judgment of the page classifier.
type ClassificationResult struct {
	Included bool          `json:"included"`
	Reason   string        `json:"reason"`
	PageType StatementType `json:"page_type"`
	Usage    Usage         `json:"usage"`
}
