package statement

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// isXLSX reports whether data looks like an Office Open XML workbook.
func isXLSX(data []byte) bool { return bytes.HasPrefix(data, zipMagic) }

// isXLS reports whether data looks like a legacy (BIFF) workbook.
func isXLS(data []byte) bool { return bytes.HasPrefix(data, oleMagic) }

// readWorkbook returns one table per worksheet, in workbook order.
func readWorkbook(data []byte) ([]table, error) {
	if isXLS(data) {
		return readXLS(data)
	}
	return readXLSX(data)
}

// builtinDateFormats are the excel number formats that display a date.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

func readXLSX(data []byte) ([]table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var tables []table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
		}
		dates := make(map[int]bool) // style id to "is a date"
		grid := make([][]any, len(rows))
		for r, cells := range rows {
			grid[r] = make([]any, len(cells))
			for c, raw := range cells {
				grid[r][c] = raw
				n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil || !finite(n) {
					continue
				}
				grid[r][c] = n
				if r == 0 {
					continue
				}
				name, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil || !isDateCell(f, sheet, name, dates) {
					continue
				}
				if t, err := excelize.ExcelDateToTime(n, date1904); err == nil {
					grid[r][c] = t
				}
			}
		}
		tables = append(tables, newTable(sheet, grid))
	}
	return tables, nil
}

// isDateCell reports whether the number format of a cell displays a date.
func isDateCell(f *excelize.File, sheet, cell string, cache map[int]bool) bool {
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	if v, ok := cache[id]; ok {
		return v
	}
	style, err := f.GetStyle(id)
	isDate := false
	if err == nil && style != nil {
		switch {
		case builtinDateFormats[style.NumFmt]:
			isDate = true
		case style.CustomNumFmt != nil:
			isDate = isDateFormat(*style.CustomNumFmt)
		}
	}
	cache[id] = isDate
	return isDate
}

// isDateFormat reports whether a custom number format shows a date, like
// "dd/mm/yyyy" or "d-mmm-yy hh:mm".
func isDateFormat(format string) bool {
	format = strings.ToLower(format)
	// quoted literals and colors do not count.
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range format {
		switch {
		case r == '"':
			quoted = !quoted
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case !quoted && !bracket:
			b.WriteRune(r)
		}
	}
	f := b.String()
	return strings.Contains(f, "y") || strings.Contains(f, "d")
}

func readXLS(data []byte) (tables []table, err error) {
	// the reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot open workbook: %v", r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var grid [][]any
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				if r == 0 {
					grid = append(grid, nil)
				}
				continue
			}
			cells := make([]any, row.LastCol()+1)
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				v := strings.TrimSpace(row.Col(c))
				if n, err := strconv.ParseFloat(v, 64); err == nil && finite(n) {
					cells[c] = n
				} else {
					cells[c] = v
				}
			}
			grid = append(grid, cells)
		}
		tables = append(tables, newTable(sheet.Name, grid))
	}
	return tables, nil
}
