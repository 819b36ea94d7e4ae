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
		glob      = flag.String("glob", "", "glob pattern for batch files, in chronological name order (required)")
		out       = flag.String("out", "ledger.csv", "output ledger CSV path")
		xlsxOut   = flag.String("xlsx", "", "also write the ledger as an XLSX workbook (optional)")
		sheet     = flag.String("sheet", "", "worksheet name for XLSX batches (default: first sheet)")
		headerRow = flag.Int("header-row", 0, "1-based header row for XLSX batches (default from env)")
		twoRow    = flag.Bool("two-row-header", false, "XLSX batch header spans two rows")
		aliases   = flag.String("aliases", "", "YAML column-alias file (optional)")
	)
	flag.Parse()

	if *glob == "" {
		printError("Error: --glob is required\n")
		os.Exit(1)
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

	opts, err := readOptions(cfg, *sheet, *headerRow, *twoRow, *aliases)
	if err != nil {
		logger.Error("failed to load column aliases", "error", err)
		os.Exit(1)
	}

	files, err := batch.Discover(*glob)
	if err != nil {
		logger.Error("no batches to process", "error", err)
		os.Exit(1)
	}
	logger.Info("consolidate.start", "files", len(files), "pattern", *glob)

	summary := report.New()
	var batches [][]entity.Record

	for _, file := range files {
		rows, err := batch.Read(file, opts)
		if err != nil {
			if errors.Is(err, common.ErrSchemaMismatch) {
				// skip the batch, keep the run going
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
		logger.Error("every batch was rejected; nothing to consolidate")
		os.Exit(1)
	}

	ledger, stats := merge.Consolidate(batches)
	stats.Log(logger)
	summary.Merge = stats
	summary.SetLedger(ledger)

	if err := export.WriteLedgerCSV(*out, ledger); err != nil {
		logger.Error("failed to write ledger", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("consolidate.done", "path", *out, "records", len(ledger))

	if *xlsxOut != "" {
		if err := export.WriteLedgerXLSX(*xlsxOut, ledger); err != nil {
			logger.Error("failed to write workbook", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
	}

	summary.Render(os.Stdout)
}

func readOptions(cfg *common.Config, sheet string, headerRow int, twoRow bool, aliasesPath string) (batch.Options, error) {
	if sheet == "" {
		sheet = cfg.Ingest.SheetName
	}
	if headerRow == 0 {
		headerRow = cfg.Ingest.HeaderRow
	}
	if aliasesPath == "" {
		aliasesPath = cfg.Ingest.AliasesPath
	}
	aliases, err := batch.LoadAliases(aliasesPath)
	if err != nil {
		return batch.Options{}, err
	}
	return batch.Options{
		DateLayout:   cfg.Ingest.DateLayout,
		Aliases:      aliases,
		SheetName:    sheet,
		HeaderRow:    headerRow,
		TwoRowHeader: twoRow,
	}, nil
}
