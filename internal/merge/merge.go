// Package merge resolves duplicate request ids across batches. Batches must
// arrive in ascending chronological order; the merger never re-derives that
// order from content. When the same id appears in several batches, the
// occurrence from the latest batch wins.
package merge

import (
	"log/slog"
	"sort"

	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

// ConsolidateStats reports the row counts around deduplication.
type ConsolidateStats struct {
	Batches    int
	RowsBefore int
	RowsAfter  int
	Duplicated int // distinct request ids that appeared in more than one batch
}

// Consolidate concatenates the batches in the given order and keeps, for
// each request id, the last occurrence in the concatenated sequence. The
// ledger comes back sorted by request id ascending.
func Consolidate(batches [][]entity.Record) ([]entity.Record, ConsolidateStats) {
	stats := ConsolidateStats{Batches: len(batches)}

	latest := make(map[int64]entity.Record)
	dupes := make(map[int64]bool)

	for _, batch := range batches {
		stats.RowsBefore += len(batch)
		for _, rec := range batch {
			if _, seen := latest[rec.Solicitacao]; seen {
				dupes[rec.Solicitacao] = true
			}
			latest[rec.Solicitacao] = rec
		}
	}

	ledger := make([]entity.Record, 0, len(latest))
	for _, rec := range latest {
		ledger = append(ledger, rec)
	}
	sort.Slice(ledger, func(i, j int) bool {
		return ledger[i].Solicitacao < ledger[j].Solicitacao
	})

	stats.RowsAfter = len(ledger)
	stats.Duplicated = len(dupes)
	return ledger, stats
}

// UpdateStats reports how an incremental update changed the ledger.
type UpdateStats struct {
	Existing int
	Incoming int
	Added    int // ids present in the new batches only
	Updated  int // ids present in both; new value replaced the old
	Total    int
}

// Update folds new batches into an existing ledger. The new batches are
// first consolidated among themselves, then appended after the existing
// ledger and deduplicated keeping the last occurrence: new data always
// supersedes existing data for a shared id. Recency is positional, no date
// field is compared.
func Update(existing []entity.Record, newBatches [][]entity.Record) ([]entity.Record, UpdateStats) {
	incoming, _ := Consolidate(newBatches)

	stats := UpdateStats{Existing: len(existing), Incoming: len(incoming)}

	base := make(map[int64]bool, len(existing))
	for _, rec := range existing {
		base[rec.Solicitacao] = true
	}
	for _, rec := range incoming {
		if base[rec.Solicitacao] {
			stats.Updated++
		} else {
			stats.Added++
		}
	}

	ledger, _ := Consolidate([][]entity.Record{existing, incoming})
	stats.Total = len(ledger)
	return ledger, stats
}

// Log emits the consolidation counters.
func (s ConsolidateStats) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("merge.done",
		"batches", s.Batches,
		"rows_before", s.RowsBefore,
		"rows_after", s.RowsAfter,
		"ids_duplicated", s.Duplicated,
	)
}

// Log emits the update counters.
func (s UpdateStats) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("update.done",
		"existing", s.Existing,
		"incoming", s.Incoming,
		"added", s.Added,
		"updated", s.Updated,
		"total", s.Total,
	)
}
