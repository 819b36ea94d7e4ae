package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/rbalmeida/solicitacoes-ledger/internal/aggregate"
	"github.com/rbalmeida/solicitacoes-ledger/internal/batch"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
	"github.com/rbalmeida/solicitacoes-ledger/internal/export"
	"github.com/rbalmeida/solicitacoes-ledger/internal/merge"
	"github.com/rbalmeida/solicitacoes-ledger/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		base      = flag.String("base", "", "existing ledger CSV to update (required)")
		glob      = flag.String("glob", "", "glob pattern for the new batch files (required)")
		out       = flag.String("out", "", "output ledger path (default: overwrite --base)")
		sheet     = flag.String("sheet", "", "worksheet name for XLSX batches (default: first sheet)")
		headerRow = flag.Int("header-row", 0, "1-based header row for XLSX batches (default from env)")
		twoRow    = flag.Bool("two-row-header", false, "XLSX batch header spans two rows")
		aliases   = flag.String("aliases", "", "YAML column-alias file (optional)")
	)
	flag.Parse()

	if *base == "" || *glob == "" {
		printError("Error: --base and --glob are required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = *base
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	aliasMap, err := batch.LoadAliases(firstNonEmpty(*aliases, cfg.Ingest.AliasesPath))
	if err != nil {
		logger.Error("failed to load column aliases", "error", err)
		os.Exit(1)
	}
	opts := batch.Options{
		DateLayout:   cfg.Ingest.DateLayout,
		Aliases:      aliasMap,
		SheetName:    firstNonEmpty(*sheet, cfg.Ingest.SheetName),
		HeaderRow:    pickHeaderRow(*headerRow, cfg.Ingest.HeaderRow),
		TwoRowHeader: *twoRow,
	}

	existing, err := batch.ReadLedger(*base)
	if err != nil {
		logger.Error("failed to read existing ledger", "path", *base, "error", err)
		os.Exit(1)
	}
	logger.Info("update.start", "base", *base, "existing", len(existing))

	files, err := batch.Discover(*glob)
	if err != nil {
		// existing ledger stays untouched when there is nothing new
		logger.Error("no new batches to fold in", "error", err)
		os.Exit(1)
	}

	summary := report.New()
	var batches [][]entity.Record

	for _, file := range files {
		rows, err := batch.Read(file, opts)
		if err != nil {
			if errors.Is(err, common.ErrSchemaMismatch) {
				logger.Error("batch skipped", "file", file, "error", err)
				summary.SkipBatch()
				continue
			}
			logger.Error("failed to read batch", "file", file, "error", err)
			os.Exit(1)
		}

		res := aggregate.Aggregate(rows)
		res.Log(logger, file)
		summary.AddBatch(res)
		batches = append(batches, res.Records)
	}

	if len(batches) == 0 {
		logger.Error("every new batch was rejected; ledger left untouched")
		os.Exit(1)
	}

	ledger, stats := merge.Update(existing, batches)
	stats.Log(logger)
	summary.Update = &stats
	summary.SetLedger(ledger)

	if err := export.WriteLedgerCSV(*out, ledger); err != nil {
		logger.Error("failed to write ledger", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("update.saved", "path", *out, "records", len(ledger))

	summary.Render(os.Stdout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickHeaderRow(flagValue, envValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return envValue
}
