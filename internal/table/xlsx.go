package table

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX loads one sheet of an XLSX workbook into a Table. The first
// row is the header; short rows are padded to the header width.
func ReadXLSX(path string, sheetIndex int) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "table: open xlsx")
	}
	if sheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("table: sheet index %d out of range (file has %d sheets)", sheetIndex, len(f.Sheets))
	}
	sheet := f.Sheets[sheetIndex]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("table: xlsx sheet is empty")
	}

	header := rowToStrings(sheet.Rows[0])
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	t := New(header)
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		if err := t.AppendRow(cells[:len(header)]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
