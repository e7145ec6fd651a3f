// Package main writes the synthetic applicant table used by the risk console and the worker.
//
// Usage: go run ./cmd/tools/dataset-generator --count 50 --output customer_database.csv
//
// With --postgres the same rows also replace the contents of the configured applicant table.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/dataset"
	"credit-risk-workers/internal/models"

	"github.com/spf13/cobra"
)

var (
	genCfg     = dataset.DefaultGeneratorConfig()
	outputPath string
	toPostgres bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "dataset-generator",
	Short:        "Generate the synthetic customer database",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&genCfg.Count, "count", "n", genCfg.Count, "Number of applicants")
	rootCmd.Flags().Uint64Var(&genCfg.Seed, "seed", genCfg.Seed, "Random seed (0 picks one)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "customer_database.csv", "CSV output path")
	rootCmd.Flags().BoolVar(&genCfg.SimulateTransactions, "transactions", genCfg.SimulateTransactions, "Simulate recent transactions")
	rootCmd.Flags().IntVar(&genCfg.TransactionsPerEntry, "transactions-per-entry", genCfg.TransactionsPerEntry, "Transactions per applicant")
	rootCmd.Flags().BoolVar(&toPostgres, "postgres", false, "Also replace the applicant table in PostgreSQL")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Database operation timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if genCfg.Count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", genCfg.Count)
	}

	records := dataset.Generate(genCfg)

	if err := dataset.WriteCSVFile(outputPath, records); err != nil {
		return err
	}

	if toPostgres {
		if err := replaceTable(cmd.Context(), records); err != nil {
			return err
		}
	}

	high := 0
	for _, r := range records {
		if r.HistoricalRisk == models.RiskLabelHigh {
			high++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Success! Generated %d applicants (%d High Risk) in %s\n", len(records), high, outputPath)
	return nil
}

func replaceTable(parent context.Context, records []models.ApplicantRecord) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cfg, err := config.LoadForTools()
	if err != nil {
		return err
	}

	zapLog := logger.New(cfg.Logging.Level, "console", "stderr")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	src := dataset.NewPostgresSource(pg.DB, cfg.Dataset.Table)
	if err := src.EnsureTable(ctx); err != nil {
		return err
	}
	if err := src.Replace(ctx, records); err != nil {
		return err
	}

	log.Info("applicant table replaced", map[string]interface{}{
		"table": cfg.Dataset.Table,
		"rows":  len(records),
	})
	return nil
}
