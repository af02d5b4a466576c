// Package validator turns classified statement pages into schema-checked,
// normalized structured statements via a model-backed table parser.
package validator

import (
	"encoding/json"
	"fmt"
)

// wireStatement is the model's output contract. Years arrive as either
// integers or digit strings depending on the backend, so they stay loose
// here and harden during normalization.
type wireStatement struct {
	StatementType string      `json:"statement_type"`
	Units         wireUnits   `json:"units"`
	Periods       []wirePeriod `json:"periods"`
	Rows          []wireRow   `json:"rows"`
	Notes         []string    `json:"notes"`
}

type wireUnits struct {
	Currency string `json:"currency"`
	Scale    string `json:"scale"`
}

type wirePeriod struct {
	Label string      `json:"label"`
	Date  string      `json:"date"`
	Year  interface{} `json:"year"`
}

type wireRow struct {
	Label     string                 `json:"label"`
	Values    map[string]interface{} `json:"values"`
	IsSection *bool                  `json:"is_section"`
	SectionID string                 `json:"section_id"`
}

var validStatementTypes = map[string]bool{
	"income_statement": true,
	"balance_sheet":    true,
	"cash_flow":        true,
}

// validateSchema enforces the extraction contract: statement_type from the
// enum, units with currency and scale, at least two periods each carrying a
// label and a resolvable year, and rows with labels and value objects.
// Violations feed the repair retry verbatim, so messages name the offending
// field the way the model wrote it.
func validateSchema(w *wireStatement) error {
	if !validStatementTypes[w.StatementType] {
		return fmt.Errorf("statement_type %q is not one of income_statement, balance_sheet, cash_flow", w.StatementType)
	}
	if w.Units.Currency == "" {
		return fmt.Errorf("units.currency is required")
	}
	if w.Units.Scale == "" {
		return fmt.Errorf("units.scale is required")
	}
	if len(w.Periods) < 2 {
		return fmt.Errorf("periods must contain at least 2 entries, got %d", len(w.Periods))
	}
	for i, p := range w.Periods {
		if p.Label == "" {
			return fmt.Errorf("periods[%d].label is required", i)
		}
		if _, ok := periodYear(p); !ok {
			return fmt.Errorf("periods[%d].year %v is not an integer year", i, p.Year)
		}
	}
	if len(w.Rows) == 0 {
		return fmt.Errorf("rows must not be empty")
	}
	for i, r := range w.Rows {
		if r.Label == "" {
			return fmt.Errorf("rows[%d].label is required", i)
		}
		if r.Values == nil {
			return fmt.Errorf("rows[%d].values is required", i)
		}
	}
	return nil
}

// periodYear resolves the loosely-typed year field to an int.
func periodYear(p wirePeriod) (int, bool) {
	switch y := p.Year.(type) {
	case float64:
		return int(y), true
	case int:
		return y, true
	case json.Number:
		if n, err := y.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if year, ok := NormalizeYearKey(y); ok {
			return year, true
		}
	}
	return 0, false
}
