package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"finstmt/pkg/models"
)

const sheetName = "All Financial Tables"

// workbookStyles holds the style IDs registered on one workbook.
type workbookStyles struct {
	title   int
	header  int
	section int
	number  int
}

// WriteWorkbook renders the merged statements into a single-sheet Excel
// workbook: a merged title row, a "Fiscal Year Ended" caption, a navy header
// with the year columns, then one titled block per statement with grey
// section dividers and comma-formatted numerics. The top four rows stay
// frozen while scrolling.
func WriteWorkbook(merged []*models.Statement, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	styles, err := registerStyles(f)
	if err != nil {
		return err
	}

	years := allYears(merged)
	numCols := 1 + len(years)
	if numCols < 2 {
		numCols = 2
	}

	if err := f.MergeCell(sheetName, "A2", cellRef(numCols, 2)); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "HISTORICAL FINANCIAL STATEMENTS")
	f.SetCellStyle(sheetName, "A2", cellRef(numCols, 2), styles.title)

	f.SetCellValue(sheetName, "A3", "Fiscal Year Ended")

	headerRow := append([]string{"Label"}, years...)
	if len(years) == 0 {
		headerRow = []string{"Label", "Value"}
	}
	for i, h := range headerRow {
		f.SetCellValue(sheetName, cellRef(i+1, 4), h)
	}
	f.SetCellStyle(sheetName, "A4", cellRef(len(headerRow), 4), styles.header)

	row := 5
	if len(merged) == 0 {
		f.SetCellValue(sheetName, cellRef(1, row), "No financial statements available.")
	}
	for _, st := range merged {
		row = writeStatementBlock(f, st, years, numCols, row, styles)
	}

	autoSizeColumns(f, numCols, len(years))

	return f.SaveAs(path)
}

func registerStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	navy := excelize.Fill{Type: "pattern", Color: []string{"000080"}, Pattern: 1}
	numFmt := "#,##0.00"

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 14, Bold: true},
		Alignment: center,
	}); err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      navy,
		Alignment: center,
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Arial", Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("section style: %w", err)
	}
	if s.number, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Family: "Arial", Color: "000080"},
		Alignment:    center,
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, fmt.Errorf("number style: %w", err)
	}
	return s, nil
}

// writeStatementBlock emits one statement's title row and data rows,
// returning the next free row. Two blank rows separate statements.
func writeStatementBlock(f *excelize.File, st *models.Statement, years []string, numCols, row int, styles workbookStyles) int {
	title := st.StatementType.Title()
	if st.Units.Scale != "" {
		title = fmt.Sprintf("%s (Scale: %s)", title, st.Units.Scale)
	}
	f.SetCellValue(sheetName, cellRef(1, row), title)
	f.SetCellStyle(sheetName, cellRef(1, row), cellRef(1, row), styles.header)
	row++

	for _, r := range st.Rows {
		if r.IsSection || allValuesNil(r.Values) {
			f.SetCellValue(sheetName, cellRef(1, row), r.Label)
			f.SetCellStyle(sheetName, cellRef(1, row), cellRef(1, row), styles.section)
			row++
			continue
		}

		f.SetCellValue(sheetName, cellRef(1, row), r.Label)
		for i, year := range years {
			if v := r.Values[year]; v != nil {
				cell := cellRef(i+2, row)
				f.SetCellValue(sheetName, cell, *v)
				f.SetCellStyle(sheetName, cell, cell, styles.number)
			}
		}
		row++
	}
	return row + 2
}

// allYears unions the year columns of every merged statement, ascending.
func allYears(merged []*models.Statement) []string {
	combined := &models.Statement{}
	for _, st := range merged {
		combined.Periods = append(combined.Periods, st.Periods...)
		combined.Rows = append(combined.Rows, st.Rows...)
	}
	return periodColumns(combined)
}

func autoSizeColumns(f *excelize.File, numCols, yearCount int) {
	cols, err := f.GetCols(sheetName)
	if err != nil {
		return
	}
	for i, col := range cols {
		if i >= numCols {
			break
		}
		maxLen := 0
		for _, v := range col {
			if len(v) > maxLen {
				maxLen = len(v)
			}
		}
		width := float64(maxLen + 2)
		if i > 0 && yearCount > 0 {
			// numeric columns get a little extra and a sane floor
			width = float64(maxLen + 4)
			if width < 12 {
				width = 12
			}
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		f.SetColWidth(sheetName, name, name, width)
	}
}

func allValuesNil(values map[string]*float64) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}
