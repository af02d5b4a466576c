package exporter

import (
	"strings"

	"finstmt/pkg/models"
)

// KeyMetrics holds headline figures pulled from the latest reported period.
type KeyMetrics struct {
	Year          string
	Revenue       *float64
	NetIncome     *float64
	OperatingCash *float64
}

var (
	revenueKeywords   = []string{"total revenue", "total net revenue", "net revenue", "net sales", "total sales", "revenue", "sales"}
	netIncomeKeywords = []string{"net income attributable", "net income", "net earnings", "net loss"}
	operCashKeywords  = []string{"net cash provided by operating activities", "net cash from operating activities", "cash provided by operating", "operating activities"}
)

// SummaryMetrics scans merged statements for headline line items, reading
// each from the most recent period of its statement. Keyword matching is
// ordered most-specific first; section rows are skipped.
func SummaryMetrics(merged []*models.Statement) KeyMetrics {
	var m KeyMetrics
	for _, st := range merged {
		cols := periodColumns(st)
		if len(cols) == 0 {
			continue
		}
		latest := cols[len(cols)-1]
		if latest > m.Year {
			m.Year = latest
		}

		switch st.StatementType {
		case models.IncomeStatement:
			if m.Revenue == nil {
				m.Revenue = findRowValue(st, latest, revenueKeywords)
			}
			if m.NetIncome == nil {
				m.NetIncome = findRowValue(st, latest, netIncomeKeywords)
			}
		case models.CashFlow:
			if m.OperatingCash == nil {
				m.OperatingCash = findRowValue(st, latest, operCashKeywords)
			}
		}
	}
	return m
}

func findRowValue(st *models.Statement, col string, keywords []string) *float64 {
	for _, kw := range keywords {
		for _, row := range st.Rows {
			if row.IsSection {
				continue
			}
			if strings.Contains(strings.ToLower(row.Label), kw) {
				if v, ok := row.Values[col]; ok && v != nil {
					return v
				}
			}
		}
	}
	return nil
}
