// Package analyze produces the enriched analytic view of a ledger: every
// record paired with the fields extracted from its annotation text, plus a
// provider base sheet meant for manual completion (CNPJ, contacts).
package analyze

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/export"
	"github.com/rbalmeida/solicitacoes-ledger/internal/extract"
	"github.com/rbalmeida/solicitacoes-ledger/internal/normalize"
)

// AnalyticColumns is the analytic view header, in the order the analysts
// consume it.
var AnalyticColumns = []string{
	"Empresa",
	"Data",
	"Prestador",
	"Tipo",
	"Descricao_Item",
	"Solicitacao",
	"Pedido",
	"Vl_Solicitacao_Total",
	"Dt_Preventrega",
	"Ds_Prioridade",
	"Usuario",
	"Situacao",
	"Numero_NF",
	"Vencimento_NF",
}

// ProviderBaseColumns is the provider base header; all columns after the
// name are left blank for manual fill.
var ProviderBaseColumns = []string{
	constants.ProviderColNome,
	constants.ProviderColCNPJ,
	constants.ProviderColContato,
	constants.ProviderColEmail,
	constants.ProviderColTelefone,
	constants.ProviderColObs,
}

// EnrichedColumns is the analytic header after the provider base has been
// joined in: the contact block follows the provider name and the base's
// free-text notes close the row.
var EnrichedColumns = []string{
	"Empresa",
	"Data",
	"Prestador",
	constants.ProviderColCNPJ,
	constants.ProviderColContato,
	constants.ProviderColEmail,
	constants.ProviderColTelefone,
	"Tipo",
	"Descricao_Item",
	"Solicitacao",
	"Pedido",
	"Vl_Solicitacao_Total",
	"Dt_Preventrega",
	"Ds_Prioridade",
	"Usuario",
	"Situacao",
	"Numero_NF",
	"Vencimento_NF",
	constants.ProviderColObs,
}

// Row pairs a ledger record with its enrichment.
type Row struct {
	Record     entity.Record
	Enrichment entity.Enrichment
}

// Service runs extraction over a ledger and shapes the analytic outputs.
type Service struct {
	extractor *extract.Extractor
	logger    *slog.Logger
}

func NewService(extractor *extract.Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractor: extractor, logger: logger}
}

// Run extracts enrichment for every record and returns the rows sorted by
// date descending, then company ascending. Extraction is recomputed from
// the annotation text on every run; nothing is carried over.
func (s *Service) Run(records []entity.Record) []Row {
	rows := make([]Row, 0, len(records))
	identified := 0
	for _, rec := range records {
		enr := s.extractor.Extract(rec.ObsFields())
		if enr.Prestador != nil {
			identified++
		}
		rows = append(rows, Row{Record: rec, Enrichment: enr})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].Record.Data, rows[j].Record.Data
		switch {
		case di == nil && dj == nil:
			return rows[i].Record.Empresa < rows[j].Record.Empresa
		case di == nil:
			return false // undated records sink to the bottom
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.After(*dj)
		default:
			return rows[i].Record.Empresa < rows[j].Record.Empresa
		}
	})

	s.logger.Info("analyze.done",
		"records", len(records),
		"providers_identified", identified,
	)
	return rows
}

// AnalyticRows renders rows for the analytic table.
func AnalyticRows(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Record.Empresa,
			export.FormatDate(row.Record.Data),
			deref(row.Enrichment.Prestador),
			string(row.Enrichment.Tipo),
			deref(row.Enrichment.DescricaoItem),
			fmt.Sprintf("%d", row.Record.Solicitacao),
			row.Record.Pedido,
			normalize.FormatCents(row.Record.TotalCents),
			row.Record.DtPrevEntr,
			row.Record.Prioridade,
			row.Record.Usuario,
			row.Record.Situacao,
			deref(row.Enrichment.NumeroNF),
			deref(row.Enrichment.VencimentoNF),
		})
	}
	return out
}

// EnrichedRows renders the analytic table left-joined with the provider
// base on provider name. Rows whose provider is absent from the base, or
// was never extracted, keep blank contact columns. The second result is
// the number of rows that gained a CNPJ.
func EnrichedRows(rows []Row, base map[string]entity.Provider) ([][]string, int) {
	out := make([][]string, 0, len(rows))
	withCNPJ := 0
	for _, row := range rows {
		var p entity.Provider
		if row.Enrichment.Prestador != nil {
			p = base[*row.Enrichment.Prestador]
		}
		if p.CNPJ != "" {
			withCNPJ++
		}
		out = append(out, []string{
			row.Record.Empresa,
			export.FormatDate(row.Record.Data),
			deref(row.Enrichment.Prestador),
			p.CNPJ,
			p.Contato,
			p.Email,
			p.Telefone,
			string(row.Enrichment.Tipo),
			deref(row.Enrichment.DescricaoItem),
			fmt.Sprintf("%d", row.Record.Solicitacao),
			row.Record.Pedido,
			normalize.FormatCents(row.Record.TotalCents),
			row.Record.DtPrevEntr,
			row.Record.Prioridade,
			row.Record.Usuario,
			row.Record.Situacao,
			deref(row.Enrichment.NumeroNF),
			deref(row.Enrichment.VencimentoNF),
			p.Observacoes,
		})
	}
	return out, withCNPJ
}

// FilterByCategory keeps only the rows classified under the named
// category. The name is free-form ("servicos", "Serviço", "COMPRA");
// a name that resolves to no known category is rejected.
func FilterByCategory(rows []Row, name string) ([]Row, error) {
	cat, ok := constants.Canonicalize(name)
	if !ok {
		return nil, common.NewAppError("INVALID_CATEGORY",
			fmt.Sprintf("unknown category %q", name), common.ErrInvalidInput)
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Enrichment.Tipo == cat {
			out = append(out, row)
		}
	}
	return out, nil
}

// ProviderBase returns one row per distinct extracted provider, sorted by
// name, with the manual-fill columns blank.
func ProviderBase(rows []Row) [][]string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, row := range rows {
		if row.Enrichment.Prestador == nil {
			continue
		}
		name := *row.Enrichment.Prestador
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([][]string, 0, len(names))
	for _, name := range names {
		out = append(out, []string{name, "", "", "", "", ""})
	}
	return out
}

// CategoryCounts tallies the category distribution for the run summary.
func CategoryCounts(rows []Row) map[constants.Category]int {
	counts := make(map[constants.Category]int)
	for _, row := range rows {
		counts[row.Enrichment.Tipo]++
	}
	return counts
}

// TopProviders returns the n most frequent providers, most frequent first,
// ties broken by name.
func TopProviders(rows []Row, n int) []ProviderCount {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Enrichment.Prestador != nil {
			counts[*row.Enrichment.Prestador]++
		}
	}
	ranked := make([]ProviderCount, 0, len(counts))
	for name, c := range counts {
		ranked = append(ranked, ProviderCount{Name: name, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ProviderCount is one entry of the provider frequency ranking.
type ProviderCount struct {
	Name  string
	Count int
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
