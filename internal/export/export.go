// Package export writes the canonical ledger and derived views as
// semicolon-delimited CSV or as XLSX workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/normalize"
)

// WriteCSV writes a semicolon-delimited UTF-8 table.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with the header on row 1.
func WriteXLSX(path, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// LedgerRows renders records in the ledger column order.
func LedgerRows(records []entity.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Empresa,
			FormatDate(rec.Data),
			rec.Situacao,
			rec.Usuario,
			fmt.Sprintf("%d", rec.Solicitacao),
			rec.NrNf,
			rec.Sku,
			rec.DtPrevEntr,
			rec.Pedido,
			rec.Prioridade,
			rec.DsCompra,
			normalize.FormatCents(rec.TotalCents),
			rec.CodCcusto,
			rec.Obs[0],
			rec.Obs[1],
			rec.Obs[2],
			rec.Obs[3],
		})
	}
	return rows
}

// WriteLedgerCSV writes the canonical ledger file.
func WriteLedgerCSV(path string, records []entity.Record) error {
	return WriteCSV(path, constants.LedgerColumns, LedgerRows(records))
}

// WriteLedgerXLSX writes the canonical ledger as a workbook.
func WriteLedgerXLSX(path string, records []entity.Record) error {
	return WriteXLSX(path, "Ledger", constants.LedgerColumns, LedgerRows(records))
}

// FormatDate renders a nullable date in the ledger notation, empty when
// the source date never parsed.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.LedgerDateLayout)
}
