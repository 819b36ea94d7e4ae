package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/normalize"
)

// Options configures how a batch file is read.
type Options struct {
	DateLayout   string            // layout for the Data column, e.g. "02/01/2006"
	Aliases      map[string]string // column-name aliases, alias -> canonical
	SheetName    string            // XLSX only; empty means first sheet
	HeaderRow    int               // XLSX only; 1-based, default 1
	TwoRowHeader bool              // XLSX only; header spans two rows
}

func (o Options) dateLayout() string {
	if o.DateLayout == "" {
		return "02/01/2006"
	}
	return o.DateLayout
}

// Read loads one batch file, choosing the reader by extension.
func Read(path string, opts Options) ([]entity.LineRow, error) {
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "csv":
		return ReadCSV(path, opts)
	case "xlsx":
		return ReadXLSX(path, opts)
	default:
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported batch format %q", filepath.Ext(path)), common.ErrInvalidInput)
	}
}

// ReadCSV reads a semicolon-delimited UTF-8 export with a named header row.
func ReadCSV(path string, opts Options) ([]entity.LineRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1 // the exporter pads some rows unevenly

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols, err := resolveHeader(header, opts.Aliases, path)
	if err != nil {
		return nil, err
	}

	var rows []entity.LineRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, buildLineRow(fieldGetter(record, cols), opts.dateLayout()))
	}
	return rows, nil
}

// resolveHeader maps canonical column names to their index, applying alias
// resolution and whitespace normalization. A missing required column is a
// schema mismatch for the whole batch.
func resolveHeader(header []string, aliases map[string]string, path string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = constants.NormalizeHeader(name)
		if canon, ok := aliases[name]; ok {
			name = canon
		}
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}

	for _, required := range constants.RequiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, common.NewAppError("SCHEMA_MISMATCH",
				fmt.Sprintf("%s: column %q not found", path, required), common.ErrSchemaMismatch)
		}
	}
	return cols, nil
}

func fieldGetter(record []string, cols map[string]int) func(string) string {
	return func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
}

// buildLineRow normalizes one raw row. A bad amount or date nulls that
// field and keeps the row; a bad request id marks the row for dropping at
// aggregation.
func buildLineRow(get func(string) string, dateLayout string) entity.LineRow {
	row := entity.LineRow{
		Empresa:    get(constants.ColEmpresa),
		Situacao:   get(constants.ColSituacao),
		Usuario:    get(constants.ColUsuario),
		NrNf:       get(constants.ColNrNf),
		Sku:        get(constants.ColSku),
		DtPrevEntr: get(constants.ColDtPreventrega),
		Pedido:     get(constants.ColPedido),
		Prioridade: get(constants.ColPrioridade),
		DsCompra:   get(constants.ColDsCompra),
		CodCcusto:  get(constants.ColCodCcusto),
		Obs: [4]string{
			get(constants.ColObs1),
			get(constants.ColObs2),
			get(constants.ColObs3),
			get(constants.ColObs4),
		},
	}

	row.ID, row.IDValid = normalize.ParseRequestID(get(constants.ColSolicitacao))
	row.AmountCents, row.AmountValid = normalize.ParseAmountCents(get(constants.ColValor))
	if t, ok := normalize.ParseDate(get(constants.ColData), dateLayout); ok {
		row.Data = &t
	}
	return row
}
