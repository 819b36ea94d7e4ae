package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

func row(id int64, cents int64, empresa string) entity.LineRow {
	return entity.LineRow{
		ID:          id,
		IDValid:     true,
		Empresa:     empresa,
		AmountCents: cents,
		AmountValid: true,
	}
}

func TestAggregateSumsLineItems(t *testing.T) {
	rows := []entity.LineRow{
		row(100, 1050, "Filial A"),
		row(100, 2500, "Filial A"),
		row(100, 199, "Filial A"),
		row(200, 7500, "Filial B"),
	}

	res := Aggregate(rows)

	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.Records[0].Solicitacao != 100 || res.Records[0].TotalCents != 3749 {
		t.Errorf("record 100: got total %d, want 3749", res.Records[0].TotalCents)
	}
	if res.Records[1].Solicitacao != 200 || res.Records[1].TotalCents != 7500 {
		t.Errorf("record 200: got total %d, want 7500", res.Records[1].TotalCents)
	}
	if res.RowsIn != 4 || res.Dropped != 0 {
		t.Errorf("counters: rows_in=%d dropped=%d", res.RowsIn, res.Dropped)
	}
}

// Non-monetary fields keep the value of the first line in row order. That is
// deliberately the opposite of the cross-batch rule, where the last batch
// wins; the asymmetry is part of the contract.
func TestAggregateFirstRowWinsWithinBatch(t *testing.T) {
	d1 := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)

	rows := []entity.LineRow{
		{ID: 300, IDValid: true, Empresa: "Matriz", Data: &d1, Situacao: "Aberta", AmountCents: 100, AmountValid: true},
		{ID: 300, IDValid: true, Empresa: "Filial", Data: &d2, Situacao: "Encerrada", AmountCents: 200, AmountValid: true},
	}

	res := Aggregate(rows)
	rec := res.Records[0]
	if rec.Empresa != "Matriz" || rec.Situacao != "Aberta" || !rec.Data.Equal(d1) {
		t.Errorf("first-wins violated: %+v", rec)
	}
	if rec.TotalCents != 300 {
		t.Errorf("total = %d, want 300", rec.TotalCents)
	}
}

func TestAggregateDropsRowsWithoutID(t *testing.T) {
	rows := []entity.LineRow{
		{IDValid: false, AmountCents: 9999, AmountValid: true},
		row(400, 500, "A"),
		{IDValid: false},
	}

	res := Aggregate(rows)
	if res.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", res.Dropped)
	}
	if len(res.Records) != 1 || res.Records[0].Solicitacao != 400 {
		t.Fatalf("unexpected records: %+v", res.Records)
	}
}

func TestAggregateNullAmountIsNotZeroed(t *testing.T) {
	rows := []entity.LineRow{
		{ID: 500, IDValid: true, AmountValid: false},
		{ID: 500, IDValid: true, AmountCents: 1200, AmountValid: true},
	}
	res := Aggregate(rows)
	if res.Records[0].TotalCents != 1200 {
		t.Errorf("total = %d, want 1200 (null amounts contribute nothing)", res.Records[0].TotalCents)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	rows := []entity.LineRow{
		row(100, 1050, "A"),
		row(100, 950, "A"),
		row(200, 7500, "B"),
	}
	first := Aggregate(rows)

	// feed the aggregated output back through as line rows
	again := make([]entity.LineRow, 0, len(first.Records))
	for _, rec := range first.Records {
		again = append(again, entity.LineRow{
			ID:          rec.Solicitacao,
			IDValid:     true,
			Empresa:     rec.Empresa,
			Data:        rec.Data,
			Situacao:    rec.Situacao,
			Usuario:     rec.Usuario,
			NrNf:        rec.NrNf,
			Sku:         rec.Sku,
			DtPrevEntr:  rec.DtPrevEntr,
			Pedido:      rec.Pedido,
			Prioridade:  rec.Prioridade,
			DsCompra:    rec.DsCompra,
			AmountCents: rec.TotalCents,
			AmountValid: true,
			CodCcusto:   rec.CodCcusto,
			Obs:         rec.Obs,
		})
	}

	second := Aggregate(again)
	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Errorf("aggregation not idempotent:\nfirst  %+v\nsecond %+v", first.Records, second.Records)
	}
}
