package attention

import (
	"sort"

	"finstmt/pkg/models"
)

// PlanOrder returns the included page indices sorted for extraction:
// income statement first, then balance sheet, then cash flow, page order
// preserved within a type. Downstream merging walks pages in this order, so
// the plan fixes which statement leads the final report.
func PlanOrder(results map[int]models.ClassificationResult) []int {
	var indices []int
	for idx, r := range results {
		if r.Included {
			indices = append(indices, idx)
		}
	}
	sort.SliceStable(indices, func(i, j int) bool {
		pi := results[indices[i]].PageType.Priority()
		pj := results[indices[j]].PageType.Priority()
		if pi != pj {
			return pi < pj
		}
		return indices[i] < indices[j]
	})
	return indices
}

// IncludedTypes reports which statement types the classifier found.
func IncludedTypes(results map[int]models.ClassificationResult) map[models.StatementType]bool {
	types := make(map[models.StatementType]bool)
	for _, r := range results {
		if r.Included && r.PageType != models.NoStatement {
			types[r.PageType] = true
		}
	}
	return types
}
