// Package report accumulates run counters and prints the human-readable
// summary. The summary is informational only; the ledger file is the data
// contract.
package report

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/aggregate"
	"github.com/rbalmeida/solicitacoes-ledger/internal/analyze"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/merge"
	"github.com/rbalmeida/solicitacoes-ledger/internal/normalize"
)

// Summary collects the counters of one run.
type Summary struct {
	RunID uuid.UUID

	Sources        int
	SkippedBatches int
	RowsIngested   int
	DroppedNoID    int
	Aggregated     int

	Merge  merge.ConsolidateStats
	Update *merge.UpdateStats

	LedgerSize int
	TotalCents int64
	Companies  int

	ProvidersIdentified int
	DistinctProviders   int
	Categories          map[constants.Category]int
	TopProviders        []analyze.ProviderCount
}

// New starts a summary with a fresh run id.
func New() *Summary {
	return &Summary{RunID: uuid.New()}
}

// AddBatch folds one batch's aggregation counters into the summary.
func (s *Summary) AddBatch(res aggregate.Result) {
	s.Sources++
	s.RowsIngested += res.RowsIn
	s.DroppedNoID += res.Dropped
	s.Aggregated += len(res.Records)
}

// SkipBatch records a batch rejected for a schema mismatch.
func (s *Summary) SkipBatch() {
	s.Sources++
	s.SkippedBatches++
}

// SetLedger derives the ledger-wide figures.
func (s *Summary) SetLedger(ledger []entity.Record) {
	s.LedgerSize = len(ledger)
	companies := make(map[string]bool)
	var total int64
	for _, rec := range ledger {
		total += rec.TotalCents
		if rec.Empresa != "" {
			companies[rec.Empresa] = true
		}
	}
	s.TotalCents = total
	s.Companies = len(companies)
}

// SetEnrichment derives the extraction figures from analytic rows.
func (s *Summary) SetEnrichment(rows []analyze.Row, topN int) {
	providers := make(map[string]bool)
	for _, row := range rows {
		if row.Enrichment.Prestador != nil {
			s.ProvidersIdentified++
			providers[*row.Enrichment.Prestador] = true
		}
	}
	s.DistinctProviders = len(providers)
	s.Categories = analyze.CategoryCounts(rows)
	s.TopProviders = analyze.TopProviders(rows, topN)
}

// Render prints the summary block.
func (s *Summary) Render(w io.Writer) {
	line := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	line("============================================================")
	line("RESUMO DO PROCESSAMENTO  (run %s)", s.RunID)
	line("============================================================")
	line("Arquivos processados:      %d", s.Sources)
	if s.SkippedBatches > 0 {
		line("Arquivos ignorados:        %d (colunas ausentes)", s.SkippedBatches)
	}
	line("Linhas lidas:              %d", s.RowsIngested)
	line("Linhas sem solicitação:    %d", s.DroppedNoID)
	line("Solicitações agregadas:    %d", s.Aggregated)
	if s.Merge.RowsBefore > 0 {
		line("Duplicadas entre arquivos: %d (%d -> %d linhas)",
			s.Merge.Duplicated, s.Merge.RowsBefore, s.Merge.RowsAfter)
	}
	if s.Update != nil {
		line("Adicionadas:               %d", s.Update.Added)
		line("Atualizadas:               %d", s.Update.Updated)
	}
	line("Solicitações no ledger:    %d", s.LedgerSize)
	line("Valor total:               R$ %s", normalize.FormatCents(s.TotalCents))
	line("Empresas/Filiais:          %d", s.Companies)

	if s.Categories != nil {
		line("------------------------------------------------------------")
		line("Prestadores identificados: %d (%d distintos)", s.ProvidersIdentified, s.DistinctProviders)
		for _, cat := range constants.AsStringSlice() {
			if n := s.Categories[constants.Category(cat)]; n > 0 {
				line("  %-10s %d", cat+":", n)
			}
		}
		if len(s.TopProviders) > 0 {
			line("Prestadores mais frequentes:")
			for _, p := range s.TopProviders {
				line("  %s: %d solicitações", p.Name, p.Count)
			}
		}
	}
	line("============================================================")
}
