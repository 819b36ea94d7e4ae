package entity

import "github.com/rbalmeida/solicitacoes-ledger/constants"

// Enrichment holds the fields derived from a request's annotation text.
// Every pointer is nil when no extraction rule matched; the values are
// recomputed from scratch on every run, never merged across batches.
type Enrichment struct {
	Prestador     *string
	Tipo          constants.Category
	NumeroNF      *string
	VencimentoNF  *string
	DescricaoItem *string
}
