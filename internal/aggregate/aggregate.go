// Package aggregate collapses the line items of one batch into a single
// record per request id. The monetary amount is summed across line items;
// every other field keeps the value of the first line encountered in the
// batch's original row order. First-wins here is intentional and is the
// counterpart of the last-wins rule applied across batches by the merger.
package aggregate

import (
	"log/slog"

	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

// Result carries the aggregated records plus the per-batch bookkeeping
// surfaced in the run summary.
type Result struct {
	Records []entity.Record
	RowsIn  int
	Dropped int // rows discarded for an unparsable request id
}

// Aggregate groups rows by request id. Rows with no parsable request id are
// dropped and counted. Output keeps group-discovery order: records appear
// in the order their id was first seen in the batch.
func Aggregate(rows []entity.LineRow) Result {
	res := Result{RowsIn: len(rows)}

	index := make(map[int64]int, len(rows))
	records := make([]entity.Record, 0, len(rows))

	for _, row := range rows {
		if !row.IDValid {
			res.Dropped++
			continue
		}

		if i, seen := index[row.ID]; seen {
			if row.AmountValid {
				records[i].TotalCents += row.AmountCents
			}
			continue
		}

		rec := entity.Record{
			Solicitacao: row.ID,
			Empresa:     row.Empresa,
			Data:        row.Data,
			Situacao:    row.Situacao,
			Usuario:     row.Usuario,
			NrNf:        row.NrNf,
			Sku:         row.Sku,
			DtPrevEntr:  row.DtPrevEntr,
			Pedido:      row.Pedido,
			Prioridade:  row.Prioridade,
			DsCompra:    row.DsCompra,
			CodCcusto:   row.CodCcusto,
			Obs:         row.Obs,
		}
		if row.AmountValid {
			rec.TotalCents = row.AmountCents
		}

		index[row.ID] = len(records)
		records = append(records, rec)
	}

	res.Records = records
	return res
}

// Log emits the per-batch aggregation counters.
func (r Result) Log(logger *slog.Logger, source string) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("aggregate.done",
		"source", source,
		"rows_in", r.RowsIn,
		"records", len(r.Records),
		"dropped_no_id", r.Dropped,
	)
}
