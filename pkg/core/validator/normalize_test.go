package validator

import (
	"testing"

	"finstmt/pkg/models"
)

func TestNormalizeYearKey(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2024", 2024, true},
		{" 1999 ", 1999, true},
		{"1799", 0, false},
		{"2201", 0, false},
		{"52 Weeks Ended September 1, 2024", 2024, true},
		{"September 30, 2023", 2023, true},
		{"2023-06-30", 2023, true},
		{"FY2021", 2021, true},
		{"Total", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeYearKey(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeYearKey(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCoerce(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		in   interface{}
		want *float64
	}{
		{"nil", nil, nil},
		{"float", 12.5, f(12.5)},
		{"comma grouped", "1,234,567", f(1234567)},
		{"parens negative", "(1,250)", f(-1250)},
		{"dollar sign", "$ 42.50", f(42.5)},
		{"euro sign", "€900", f(900)},
		{"blank dash", "-", nil},
		{"em dash", "—", nil},
		{"na token", "N/A", nil},
		{"empty", "   ", nil},
		{"garbage", "see note 4", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("Coerce(%v) = %v, want %v", tt.in, got, tt.want)
			case *got != *tt.want:
				t.Errorf("Coerce(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestNormalizeStatement(t *testing.T) {
	w := &wireStatement{
		StatementType: "cash_flow",
		Units:         wireUnits{Currency: "USD", Scale: "thousands"},
		Periods: []wirePeriod{
			{Label: "Fiscal 2024", Year: "2024"},
			{Label: "Fiscal 2023", Date: "2023-12-31", Year: float64(2023)},
		},
		Rows: []wireRow{
			{Label: "OPERATING ACTIVITIES", Values: map[string]interface{}{}, SectionID: "operating_activities"},
			{
				Label: "Net income",
				Values: map[string]interface{}{
					"52 Weeks Ended September 1, 2024": "1,250",
					"2023":                             "(300)",
				},
				IsSection: boolPtr(false),
				SectionID: "operating_activities",
			},
		},
	}

	st := Normalize(w)
	if st.StatementType != models.CashFlow {
		t.Fatalf("StatementType = %s", st.StatementType)
	}
	if st.Periods[0].Year != 2024 {
		t.Errorf("string year not hardened: %+v", st.Periods[0])
	}
	if st.Periods[0].Date != "2024-12-31" {
		t.Errorf("date not synthesized: %q", st.Periods[0].Date)
	}
	if !st.Rows[0].IsSection {
		t.Error("all-caps valueless row should be back-filled as a section")
	}

	net := st.Rows[1]
	if net.Values["2024"] == nil || *net.Values["2024"] != 1250 {
		t.Errorf("verbose key not rescued: %v", net.Values["2024"])
	}
	if net.Values["2023"] == nil || *net.Values["2023"] != -300 {
		t.Errorf("parenthesized value = %v, want -300", net.Values["2023"])
	}
}

func TestNormalizeRunawayTruncation(t *testing.T) {
	rows := []wireRow{
		{Label: "Revenue", Values: map[string]interface{}{"2024": float64(1)}},
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, wireRow{Label: "Deferred revenue", Values: map[string]interface{}{"2024": float64(2)}})
	}
	w := &wireStatement{
		StatementType: "income_statement",
		Units:         wireUnits{Currency: "USD", Scale: "millions"},
		Periods: []wirePeriod{
			{Label: "2024", Year: float64(2024)},
			{Label: "2023", Year: float64(2023)},
		},
		Rows: rows,
	}

	st := Normalize(w)
	if len(st.Rows) != 3 {
		t.Errorf("rows = %d, want truncation at the third consecutive repeat", len(st.Rows))
	}
}

func TestValidateSchema(t *testing.T) {
	valid := wireStatement{
		StatementType: "balance_sheet",
		Units:         wireUnits{Currency: "USD", Scale: "millions"},
		Periods: []wirePeriod{
			{Label: "2024", Year: float64(2024)},
			{Label: "2023", Year: float64(2023)},
		},
		Rows: []wireRow{{Label: "Total assets", Values: map[string]interface{}{"2024": float64(10)}}},
	}
	if err := validateSchema(&valid); err != nil {
		t.Fatalf("valid statement rejected: %v", err)
	}

	bad := valid
	bad.StatementType = "equity_statement"
	if err := validateSchema(&bad); err == nil {
		t.Error("unknown statement_type accepted")
	}

	short := valid
	short.Periods = short.Periods[:1]
	if err := validateSchema(&short); err == nil {
		t.Error("single period accepted, want minimum of 2")
	}

	strYear := valid
	strYear.Periods = []wirePeriod{
		{Label: "FY24", Year: "2024"},
		{Label: "FY23", Year: "2023"},
	}
	if err := validateSchema(&strYear); err != nil {
		t.Errorf("digit-string years rejected: %v", err)
	}
}
