package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/rbalmeida/solicitacoes-ledger/internal/analyze"
	"github.com/rbalmeida/solicitacoes-ledger/internal/batch"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/export"
	"github.com/rbalmeida/solicitacoes-ledger/internal/extract"
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
		in           = flag.String("in", "", "ledger CSV to analyze (required)")
		out          = flag.String("out", "relatorio_analitico.csv", "analytic CSV output path")
		providers    = flag.String("providers", "", "also write a provider base CSV for manual fill (optional)")
		providerBase = flag.String("provider-base", "", "filled provider base CSV to join back in (optional)")
		tipo         = flag.String("tipo", "", "only keep rows of this category, e.g. Servico (optional)")
		xlsxOut      = flag.String("xlsx", "", "also write the analytic view as an XLSX workbook (optional)")
		rulesPath    = flag.String("rules", "", "JSON extraction-rules override (optional)")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
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

	rules := extract.DefaultRules()
	path := *rulesPath
	if path == "" {
		path = cfg.Ingest.RulesPath
	}
	if path != "" {
		loaded, err := extract.LoadRules(path)
		if err != nil {
			logger.Error("failed to load extraction rules", "path", path, "error", err)
			os.Exit(1)
		}
		rules = loaded
	}

	records, err := batch.ReadLedger(*in)
	if err != nil {
		logger.Error("failed to read ledger", "path", *in, "error", err)
		os.Exit(1)
	}
	logger.Info("analyze.start", "ledger", *in, "records", len(records))

	svc := analyze.NewService(extract.New(rules, logger), logger)
	rows := svc.Run(records)

	if *tipo != "" {
		filtered, err := analyze.FilterByCategory(rows, *tipo)
		if err != nil {
			logger.Error("bad category filter", "tipo", *tipo, "error", err)
			os.Exit(1)
		}
		logger.Info("analyze.filtered", "tipo", *tipo, "kept", len(filtered), "of", len(rows))
		rows = filtered
	}

	header := analyze.AnalyticColumns
	table := analyze.AnalyticRows(rows)
	if *providerBase != "" {
		base, err := batch.ReadProviderBase(*providerBase)
		if err != nil {
			logger.Error("failed to read provider base", "path", *providerBase, "error", err)
			os.Exit(1)
		}
		var withCNPJ int
		header = analyze.EnrichedColumns
		table, withCNPJ = analyze.EnrichedRows(rows, base)
		logger.Info("analyze.enriched", "providers", len(base), "with_cnpj", withCNPJ, "records", len(rows))
	}

	if err := export.WriteCSV(*out, header, table); err != nil {
		logger.Error("failed to write analytic view", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("analyze.saved", "path", *out)

	if *providers != "" {
		if err := export.WriteCSV(*providers, analyze.ProviderBaseColumns, analyze.ProviderBase(rows)); err != nil {
			logger.Error("failed to write provider base", "path", *providers, "error", err)
			os.Exit(1)
		}
	}
	if *xlsxOut != "" {
		if err := export.WriteXLSX(*xlsxOut, "Analitico", header, table); err != nil {
			logger.Error("failed to write workbook", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
	}

	summary := report.New()
	summary.SetLedger(records)
	summary.SetEnrichment(rows, cfg.Report.TopProviders)
	summary.Render(os.Stdout)
}
