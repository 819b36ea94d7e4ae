package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/normalize"
)

// ReadLedger loads a previously written canonical ledger file. Ledger rows
// are already one-per-id, with ISO dates and dot-decimal totals.
func ReadLedger(path string) ([]entity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open ledger")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[constants.NormalizeHeader(name)] = i
	}
	for _, required := range []string{constants.ColSolicitacao, constants.ColEmpresa, constants.LedgerColValor} {
		if _, ok := cols[required]; !ok {
			return nil, common.NewAppError("SCHEMA_MISMATCH",
				fmt.Sprintf("%s: ledger column %q not found", path, required), common.ErrSchemaMismatch)
		}
	}

	var records []entity.Record
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		line++

		get := fieldGetter(record, cols)
		id, ok := normalize.ParseRequestID(get(constants.ColSolicitacao))
		if !ok {
			return nil, common.NewAppError("INVALID_LEDGER",
				fmt.Sprintf("%s: line %d has no request id", path, line), common.ErrInvalidInput)
		}

		rec := entity.Record{
			Solicitacao: id,
			Empresa:     get(constants.ColEmpresa),
			Situacao:    get(constants.LedgerColSituacao),
			Usuario:     get(constants.LedgerColUsuario),
			NrNf:        get(constants.LedgerColNrNf),
			Sku:         get(constants.ColSku),
			DtPrevEntr:  get(constants.LedgerColPrev),
			Pedido:      get(constants.ColPedido),
			Prioridade:  get(constants.LedgerColPrior),
			DsCompra:    get(constants.LedgerColCompra),
			CodCcusto:   get(constants.LedgerColCcusto),
			Obs: [4]string{
				get(constants.LedgerColObs1),
				get(constants.LedgerColObs2),
				get(constants.LedgerColObs3),
				get(constants.LedgerColObs4),
			},
		}
		if cents, ok := normalize.ParseDotCents(get(constants.LedgerColValor)); ok {
			rec.TotalCents = cents
		}
		if t, ok := normalize.ParseDate(get(constants.LedgerColData), constants.LedgerDateLayout); ok {
			rec.Data = &t
		}
		records = append(records, rec)
	}
	return records, nil
}
