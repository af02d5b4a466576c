package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"finstmt/pkg/models"
)

const (
	minYear = 1800
	maxYear = 2200
)

var yearPattern = regexp.MustCompile(`\b(18|19|20|21)\d{2}\b`)

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
	"2006",
}

// NormalizeYearKey resolves a period key to a plausible fiscal year. It tries
// a bare integer first, then known date layouts, then a year-shaped token
// anywhere in the string ("52 Weeks Ended September 1, 2024" resolves to
// 2024).
func NormalizeYearKey(key string) (int, bool) {
	s := strings.TrimSpace(key)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= minYear && n <= maxYear {
			return n, true
		}
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	if m := yearPattern.FindString(s); m != "" {
		n, _ := strconv.Atoi(m)
		return n, true
	}
	return 0, false
}

var blankTokens = map[string]bool{
	"na": true, "n/a": true, "–": true, "—": true, "-": true,
}

// Coerce converts a raw cell value to a number. Strings are stripped of
// commas and currency symbols, parenthesized values go negative, and blank
// markers become nil.
func Coerce(v interface{}) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		if s == "" || blankTokens[strings.ToLower(s)] {
			return nil
		}
		neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
		s = strings.Trim(s, "()$€£¥ ")
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		if neg {
			num = -num
		}
		return &num
	}
	return nil
}

var labelNormalizer = regexp.MustCompile(`[^\w\s]`)
var spaceCollapser = regexp.MustCompile(`\s+`)

func normalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = labelNormalizer.ReplaceAllString(s, "")
	return spaceCollapser.ReplaceAllString(s, " ")
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// maxRepeatedLabels is the runaway guard: a model stuck in a loop emits the
// same row over and over, and three consecutive repeats marks the cutoff.
const maxRepeatedLabels = 3

// Normalize converts a schema-valid wire statement into the canonical model:
// years hardened to ints, dates synthesized for year-only periods, row values
// re-keyed strictly by year with verbose keys rescued by containment, cells
// coerced to numbers, sections back-filled, and runaway repetition truncated.
func Normalize(w *wireStatement) *models.Statement {
	st := &models.Statement{
		StatementType: models.ParseStatementType(w.StatementType),
		Units:         models.Units{Currency: w.Units.Currency, Scale: w.Units.Scale},
		Notes:         w.Notes,
	}

	for _, p := range w.Periods {
		year, _ := periodYear(p)
		date := p.Date
		if date == "" {
			date = strconv.Itoa(year) + "-12-31"
		}
		st.Periods = append(st.Periods, models.Period{Label: p.Label, Date: date, Year: year})
	}

	periodKeys := make([]string, len(st.Periods))
	for i, p := range st.Periods {
		periodKeys[i] = strconv.Itoa(p.Year)
	}

	repeats := 0
	prevLabel := ""
	for _, r := range w.Rows {
		norm := normalizeLabel(r.Label)
		if norm == prevLabel {
			repeats++
			if repeats >= maxRepeatedLabels {
				break
			}
		} else {
			repeats = 1
			prevLabel = norm
		}

		values := make(map[string]*float64, len(periodKeys))
		for _, key := range periodKeys {
			raw, ok := r.Values[key]
			if !ok {
				// rescue verbose keys e.g. "52 Weeks Ended September 1, 2024"
				for vk, vv := range r.Values {
					if strings.Contains(vk, key) {
						raw, ok = vv, true
						break
					}
				}
			}
			if ok {
				values[key] = Coerce(raw)
			} else {
				values[key] = nil
			}
		}

		isSection := false
		if r.IsSection != nil {
			isSection = *r.IsSection
		} else if allNil(values) && isAllUpper(r.Label) {
			isSection = true
		}

		st.Rows = append(st.Rows, models.Row{
			Label:     r.Label,
			IsSection: isSection,
			SectionID: r.SectionID,
			Values:    values,
		})
	}

	return st
}

func allNil(values map[string]*float64) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}
