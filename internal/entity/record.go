package entity

import "time"

// LineRow is one raw line item from a snapshot export, after field
// normalization. A request usually spans several line rows; the request id
// is therefore not unique here.
type LineRow struct {
	ID          int64 // request id; valid only when IDValid
	IDValid     bool
	Empresa     string
	Data        *time.Time // nil when the export carried an unparsable date
	Situacao    string
	Usuario     string
	NrNf        string
	Sku         string
	DtPrevEntr  string
	Pedido      string
	Prioridade  string
	DsCompra    string
	AmountCents int64 // valid only when AmountValid
	AmountValid bool
	CodCcusto   string
	Obs         [4]string
}

// Record is one request after intra-batch aggregation: exactly one Record
// exists per request id within a batch, and per request id in the ledger.
type Record struct {
	Solicitacao int64
	Empresa     string
	Data        *time.Time
	Situacao    string
	Usuario     string
	NrNf        string
	Sku         string
	DtPrevEntr  string
	Pedido      string
	Prioridade  string
	DsCompra    string
	TotalCents  int64
	CodCcusto   string
	Obs         [4]string
}

// ObsFields returns the non-empty annotation lines in column order.
func (r *Record) ObsFields() []string {
	fields := make([]string, 0, len(r.Obs))
	for _, o := range r.Obs {
		if o != "" {
			fields = append(fields, o)
		}
	}
	return fields
}
