package batch

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rbalmeida/solicitacoes-ledger/internal/export"
)

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	header := []string{"Empresa", "Data", "Solicitação", "Vl.Solicitação"}
	rows := [][]string{
		{"Filial SP", "20/10/2025", "181245", "1.234,56"},
		{"Filial RJ", "21/10/2025", "181300", "10,00"},
	}
	if err := export.WriteXLSX(path, "Planilha1", header, rows); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	got, err := ReadXLSX(path, defaultOptions())
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].ID != 181245 || got[0].AmountCents != 123456 {
		t.Errorf("row 0: %+v", got[0])
	}
	if got[1].Empresa != "Filial RJ" || got[1].AmountCents != 1000 {
		t.Errorf("row 1: %+v", got[1])
	}
}

// Some report layouts start a few rows down and split the header over two
// rows, a group label above the column name.
func TestReadXLSXTwoRowHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		// rows 1-3: report banner the reader must skip
		"A1": "RELATÓRIO DE SOLICITAÇÕES",
		// row 4: group labels, row 5: column names
		"A4": "Identificação", "C4": "Valores",
		"A5": "Empresa", "B5": "Data", "C5": "Vl.Solicitação", "D5": "Solicitação",
		"A6": "Matriz", "B6": "01/09/2025", "C6": "50,00", "D6": "100",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	opts := defaultOptions()
	opts.HeaderRow = 4
	opts.TwoRowHeader = true

	rows, err := ReadXLSX(path, opts)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ID != 100 || rows[0].AmountCents != 5000 || rows[0].Empresa != "Matriz" {
		t.Errorf("row: %+v", rows[0])
	}
}

func TestReadXLSXSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := export.WriteXLSX(path, "Planilha1", []string{"Empresa", "Data"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadXLSX(path, defaultOptions()); err == nil {
		t.Fatal("ReadXLSX accepted a sheet without the required columns")
	}
}
