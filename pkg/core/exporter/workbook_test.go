package exporter

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"finstmt/pkg/models"
)

func TestWriteWorkbookLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statements.xlsx")
	if err := WriteWorkbook([]*models.Statement{sampleStatement()}, path); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer wb.Close()

	if wb.GetSheetName(0) != sheetName {
		t.Errorf("sheet = %q, want %q", wb.GetSheetName(0), sheetName)
	}

	title, _ := wb.GetCellValue(sheetName, "A2")
	if title != "HISTORICAL FINANCIAL STATEMENTS" {
		t.Errorf("A2 = %q", title)
	}
	caption, _ := wb.GetCellValue(sheetName, "A3")
	if caption != "Fiscal Year Ended" {
		t.Errorf("A3 = %q", caption)
	}

	label, _ := wb.GetCellValue(sheetName, "A4")
	y1, _ := wb.GetCellValue(sheetName, "B4")
	y2, _ := wb.GetCellValue(sheetName, "C4")
	if label != "Label" || y1 != "2023" || y2 != "2024" {
		t.Errorf("header row = [%q %q %q], want [Label 2023 2024]", label, y1, y2)
	}

	blockTitle, _ := wb.GetCellValue(sheetName, "A5")
	if blockTitle != "INCOME STATEMENT (Scale: thousands)" {
		t.Errorf("A5 = %q", blockTitle)
	}
	section, _ := wb.GetCellValue(sheetName, "A6")
	if section != "REVENUES" {
		t.Errorf("A6 = %q, want section row", section)
	}

	revLabel, _ := wb.GetCellValue(sheetName, "A7")
	rev2024, _ := wb.GetCellValue(sheetName, "C7")
	if revLabel != "Net revenue" {
		t.Errorf("A7 = %q", revLabel)
	}
	if rev2024 == "" {
		t.Error("C7 should carry the 2024 revenue value")
	}

	panes, err := wb.GetPanes(sheetName)
	if err != nil {
		t.Fatalf("GetPanes: %v", err)
	}
	if !panes.Freeze || panes.TopLeftCell != "A5" {
		t.Errorf("panes = %+v, want frozen at A5", panes)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteWorkbook(nil, path); err != nil {
		t.Fatalf("WriteWorkbook(nil): %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer wb.Close()

	msg, _ := wb.GetCellValue(sheetName, "A5")
	if msg != "No financial statements available." {
		t.Errorf("A5 = %q", msg)
	}
}
