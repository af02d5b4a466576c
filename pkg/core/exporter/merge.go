// Package exporter merges per-page statements into one statement per type
// and renders the final report as markdown and as an Excel workbook.
package exporter

import (
	"sort"
	"strconv"

	"finstmt/pkg/models"
)

// Merge groups statements by type, concatenating rows in page order and
// deduplicating periods by year, first seen wins. Units come from the first
// statement of each type. Result order follows first appearance, which is
// the extraction plan's order.
func Merge(statements []*models.Statement) []*models.Statement {
	buckets := make(map[models.StatementType]*models.Statement)
	var order []models.StatementType

	for _, st := range statements {
		if st == nil {
			continue
		}
		bucket, ok := buckets[st.StatementType]
		if !ok {
			bucket = &models.Statement{
				StatementType: st.StatementType,
				Units:         st.Units,
			}
			buckets[st.StatementType] = bucket
			order = append(order, st.StatementType)
		}

		bucket.Rows = append(bucket.Rows, st.Rows...)

		seen := make(map[int]bool, len(bucket.Periods))
		for _, p := range bucket.Periods {
			seen[p.Year] = true
		}
		for _, p := range st.Periods {
			if !seen[p.Year] {
				bucket.Periods = append(bucket.Periods, p)
				seen[p.Year] = true
			}
		}

		bucket.Notes = append(bucket.Notes, st.Notes...)
	}

	merged := make([]*models.Statement, 0, len(order))
	for _, t := range order {
		merged = append(merged, buckets[t])
	}
	return merged
}

// Organize keys merged statements by their canonical type names. Absent
// types map to nil so callers can distinguish "not found" from "empty".
func Organize(merged []*models.Statement) map[string]*models.Statement {
	organized := map[string]*models.Statement{
		string(models.IncomeStatement): nil,
		string(models.BalanceSheet):    nil,
		string(models.CashFlow):        nil,
	}
	for _, st := range merged {
		if _, ok := organized[string(st.StatementType)]; ok {
			organized[string(st.StatementType)] = st
		}
	}
	return organized
}

// periodColumns returns the statement's year keys in ascending order,
// unioned across declared periods and row value keys.
func periodColumns(st *models.Statement) []string {
	seen := make(map[int]bool)
	var years []int

	add := func(y int) {
		if y != 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	for _, p := range st.Periods {
		add(p.Year)
	}
	for _, r := range st.Rows {
		for key := range r.Values {
			if y, err := strconv.Atoi(key); err == nil {
				add(y)
			}
		}
	}

	sort.Ints(years)
	cols := make([]string, len(years))
	for i, y := range years {
		cols[i] = strconv.Itoa(y)
	}
	return cols
}
