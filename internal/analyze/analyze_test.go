package analyze

import (
	"testing"
	"time"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/extract"
)

func date(day int) *time.Time {
	d := time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func service() *Service {
	return NewService(extract.New(extract.DefaultRules(), nil), nil)
}

func TestRunSortsByDateDescThenCompany(t *testing.T) {
	records := []entity.Record{
		{Solicitacao: 1, Empresa: "B", Data: date(10)},
		{Solicitacao: 2, Empresa: "A", Data: date(20)},
		{Solicitacao: 3, Empresa: "A", Data: date(10)},
		{Solicitacao: 4, Empresa: "C"}, // no date, sinks to the bottom
	}

	rows := service().Run(records)

	gotOrder := []int64{
		rows[0].Record.Solicitacao,
		rows[1].Record.Solicitacao,
		rows[2].Record.Solicitacao,
		rows[3].Record.Solicitacao,
	}
	wantOrder := []int64{2, 3, 1, 4}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestRunAttachesEnrichment(t *testing.T) {
	records := []entity.Record{
		{
			Solicitacao: 100,
			Obs:         [4]string{"PRESTADOR: ACME SERVICOS LTDA", "NF 551 vencimento 28/10", "", ""},
		},
	}

	rows := service().Run(records)

	enr := rows[0].Enrichment
	if enr.Prestador == nil || *enr.Prestador != "ACME SERVICOS LTDA" {
		t.Errorf("provider = %v", enr.Prestador)
	}
	if enr.Tipo != constants.Servico {
		t.Errorf("category = %v, want Servico", enr.Tipo)
	}
	if enr.NumeroNF == nil || *enr.NumeroNF != "551" {
		t.Errorf("invoice = %v", enr.NumeroNF)
	}
}

func TestProviderBaseUniqueSorted(t *testing.T) {
	acme, beta := "ACME LTDA", "BETA SA"
	rows := []Row{
		{Enrichment: entity.Enrichment{Prestador: &beta}},
		{Enrichment: entity.Enrichment{Prestador: &acme}},
		{Enrichment: entity.Enrichment{Prestador: &acme}},
		{Enrichment: entity.Enrichment{}},
	}

	base := ProviderBase(rows)
	if len(base) != 2 {
		t.Fatalf("got %d providers, want 2", len(base))
	}
	if base[0][0] != "ACME LTDA" || base[1][0] != "BETA SA" {
		t.Errorf("base = %v", base)
	}
	if len(base[0]) != len(ProviderBaseColumns) {
		t.Errorf("row width %d, want %d manual-fill columns", len(base[0]), len(ProviderBaseColumns))
	}
}

func TestEnrichedRowsJoinProviderBase(t *testing.T) {
	acme, unknown := "ACME LTDA", "BETA SA"
	base := map[string]entity.Provider{
		"ACME LTDA": {CNPJ: "12.345.678/0001-90", Email: "maria@acme.com", Observacoes: "contrato anual"},
	}
	rows := []Row{
		{Record: entity.Record{Solicitacao: 1}, Enrichment: entity.Enrichment{Prestador: &acme, Tipo: constants.Servico}},
		{Record: entity.Record{Solicitacao: 2}, Enrichment: entity.Enrichment{Prestador: &unknown, Tipo: constants.Outro}},
		{Record: entity.Record{Solicitacao: 3}, Enrichment: entity.Enrichment{Tipo: constants.Outro}},
	}

	table, withCNPJ := EnrichedRows(rows, base)
	if withCNPJ != 1 {
		t.Fatalf("withCNPJ = %d, want 1", withCNPJ)
	}
	if len(table) != 3 {
		t.Fatalf("got %d rows, want every row kept by the left join", len(table))
	}
	for i, row := range table {
		if len(row) != len(EnrichedColumns) {
			t.Fatalf("row %d width %d, want %d", i, len(row), len(EnrichedColumns))
		}
	}
	// contact block sits right after the provider name
	if table[0][2] != "ACME LTDA" || table[0][3] != "12.345.678/0001-90" || table[0][5] != "maria@acme.com" {
		t.Errorf("joined row = %v", table[0])
	}
	if table[0][len(table[0])-1] != "contrato anual" {
		t.Errorf("base notes should close the row, got %v", table[0])
	}
	// provider missing from the base, and rows with no provider at all,
	// keep blank contact columns
	if table[1][3] != "" || table[2][3] != "" {
		t.Errorf("unmatched rows gained contact data: %v / %v", table[1], table[2])
	}
}

func TestFilterByCategory(t *testing.T) {
	rows := []Row{
		{Record: entity.Record{Solicitacao: 1}, Enrichment: entity.Enrichment{Tipo: constants.Servico}},
		{Record: entity.Record{Solicitacao: 2}, Enrichment: entity.Enrichment{Tipo: constants.Compra}},
		{Record: entity.Record{Solicitacao: 3}, Enrichment: entity.Enrichment{Tipo: constants.Servico}},
	}

	// accent-free free-form spelling resolves to the canonical category
	got, err := FilterByCategory(rows, "servicos")
	if err != nil {
		t.Fatalf("FilterByCategory: %v", err)
	}
	if len(got) != 2 || got[0].Record.Solicitacao != 1 || got[1].Record.Solicitacao != 3 {
		t.Errorf("filtered = %+v", got)
	}

	if _, err := FilterByCategory(rows, "almoxarifado"); err == nil {
		t.Error("unknown category accepted")
	}
}

func TestTopProviders(t *testing.T) {
	a, b, c := "A", "B", "C"
	rows := []Row{
		{Enrichment: entity.Enrichment{Prestador: &a}},
		{Enrichment: entity.Enrichment{Prestador: &b}},
		{Enrichment: entity.Enrichment{Prestador: &b}},
		{Enrichment: entity.Enrichment{Prestador: &c}},
	}

	top := TopProviders(rows, 2)
	if len(top) != 2 || top[0].Name != "B" || top[0].Count != 2 || top[1].Name != "A" {
		t.Errorf("top = %+v", top)
	}
}
