package batch

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

// ReadXLSX reads a spreadsheet export. Some report layouts put the table a
// few rows down and split the header over two rows (a group label above the
// column name); HeaderRow and TwoRowHeader describe that layout.
func ReadXLSX(path string, opts Options) ([]entity.LineRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, common.NewAppError("SCHEMA_MISMATCH",
			fmt.Sprintf("%s: workbook has no sheets", path), common.ErrSchemaMismatch)
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerRow := opts.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	headerRows := 1
	if opts.TwoRowHeader {
		headerRows = 2
	}
	if len(all) < headerRow+headerRows-1 {
		return nil, common.NewAppError("SCHEMA_MISMATCH",
			fmt.Sprintf("%s: sheet %q has no header row %d", path, sheet, headerRow), common.ErrSchemaMismatch)
	}

	header := mergeHeader(all, headerRow-1, opts.TwoRowHeader)
	cols, err := resolveHeader(header, opts.Aliases, path)
	if err != nil {
		return nil, err
	}

	var rows []entity.LineRow
	for _, record := range all[headerRow-1+headerRows:] {
		if emptyRow(record) {
			continue
		}
		rows = append(rows, buildLineRow(fieldGetter(record, cols), opts.dateLayout()))
	}
	return rows, nil
}

// mergeHeader flattens a two-row header: the bottom row carries the column
// name, the top row only a group label, so the bottom cell wins when
// present.
func mergeHeader(all [][]string, top int, twoRows bool) []string {
	header := append([]string(nil), all[top]...)
	if !twoRows || top+1 >= len(all) {
		return header
	}
	bottom := all[top+1]
	for i := range bottom {
		if i >= len(header) {
			header = append(header, bottom[i])
			continue
		}
		if bottom[i] != "" {
			header[i] = bottom[i]
		}
	}
	return header
}

func emptyRow(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
