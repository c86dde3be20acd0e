package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel builds the estimate workbook: title band, column
// headers, then per section a category band followed by the flattened
// rows. Styling mirrors the table view (green bands, blue work-type
// rows, gray italic resources).
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "ВОР"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{8, 50, 12, 15, 50}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	// Green bands: estimate title, column headers, section headers.
	bandStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#16A34A"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders("#000000"),
	})
	if err != nil {
		return nil, fmt.Errorf("create band style: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#16A34A"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders("#000000"),
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	// Blue work-type band.
	workTypeStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "#1E3A8A"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DBEAFE"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders("#D1D5DB"),
	})
	if err != nil {
		return nil, fmt.Errorf("create work type style: %w", err)
	}

	// Work row: white, bold.
	workStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#111827"},
		Alignment: &excelize.Alignment{
			Vertical: "middle",
			WrapText: true,
		},
		Border: thinBorders("#D1D5DB"),
	})
	if err != nil {
		return nil, fmt.Errorf("create work style: %w", err)
	}

	// Resource row: gray fill, italic.
	resourceStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 11, Color: "#374151"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F9FAFB"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Vertical: "middle",
			WrapText: true,
		},
		Border: thinBorders("#D1D5DB"),
	})
	if err != nil {
		return nil, fmt.Errorf("create resource style: %w", err)
	}

	// ── Header bands ────────────────────────────────────────────────────

	row := 1
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Name))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetRowHeight(sheetName, row, 40)
	row++

	for i, h := range tableHeaders {
		f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columns[i], row), h)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), bandStyle)
	f.SetRowHeight(sheetName, row, 30)
	row++

	// ── Sections ────────────────────────────────────────────────────────

	for _, section := range data.Sections {
		rowStr := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
			return nil, fmt.Errorf("merge section band: %w", err)
		}
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(section.CategoryName))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, bandStyle)
		f.SetRowHeight(sheetName, row, 35)
		row++

		for _, r := range section.Rows {
			rowStr := fmt.Sprintf("%d", row)

			if r.Kind == RowWorkTypeHeader {
				if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
					return nil, fmt.Errorf("merge work type band: %w", err)
				}
				f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.Name))
				f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, workTypeStyle)
				row++
				continue
			}

			f.SetCellValue(sheetName, "A"+rowStr, r.Number)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Name))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Unit))
			f.SetCellValue(sheetName, "D"+rowStr, r.Quantity)
			f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(r.Note))

			style := workStyle
			if r.Kind == RowResource {
				style = resourceStyle
			}
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous
// leading characters with a single quote. Excel interprets cells starting
// with =, +, -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides in the given color.
func thinBorders(color string) []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: color, Style: 1}
	}
	return borders
}
