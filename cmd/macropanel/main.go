package main

import (
	"context"
	"fmt"
	"os"

	"macropanel/adapters/bundlefile"
	"macropanel/adapters/csvcache"
	"macropanel/adapters/excel"
	"macropanel/adapters/sqlite"
	"macropanel/adapters/worldbank"
	"macropanel/app"
	"macropanel/internal"
	"macropanel/internal/config"
	apperrors "macropanel/internal/errors"
	"macropanel/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the environment itself still applies.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "macropanel",
		Short: "World Bank macro panel analysis pipeline",
		Long: `Acquires World Bank development indicators, cleans them into a
country-year panel, fits cross-sectional and fixed-effects growth
regressions, and writes a result bundle for the reporting layer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context())
		},
	}

	rootCmd.AddCommand(newFetchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", apperrors.GetCode(err), err)
		os.Exit(1)
	}
}

// runPipeline executes the full single-shot analysis.
func runPipeline(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := internal.NewDefaultLogger()

	stores := []ports.BundleStore{bundlefile.New(cfg.Output.BundlePath)}
	if cfg.Output.WriteSQLite {
		stores = append(stores, sqlite.New(cfg.Output.SQLitePath))
	}
	if cfg.Output.WriteExcel {
		stores = append(stores, excel.New(cfg.Output.ExcelPath))
	}

	svc := app.NewAnalysisService(
		worldbank.NewClient(cfg.Source, logger),
		csvcache.New(cfg.Cache.Path),
		stores,
		cfg.Source.Years,
		logger,
	)

	bundle, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s complete\n", bundle.RunID)
	fmt.Printf("  source:       %s\n", bundle.Source)
	fmt.Printf("  countries:    %d (cross section, %d)\n", len(bundle.CrossSection.Rows), bundle.CrossSection.Year)
	fmt.Printf("  panel rows:   %d\n", len(bundle.CleanPanel.Rows))
	fmt.Printf("  bundle:       %s\n", cfg.Output.BundlePath)
	fmt.Printf("  fingerprint:  %s\n", bundle.Fingerprint)
	return nil
}

// newFetchCmd only refreshes the local cache, forcing a remote fetch.
func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Re-download indicator data and rewrite the cache",
		Long: `Fetches all indicator series from the World Bank API and rewrites the
local cache file, replacing whatever was cached before. The analysis
itself is not run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			client := worldbank.NewClient(cfg.Source, logger)
			obs, err := client.FetchPanel(cmd.Context(), cfg.Source.Years)
			if err != nil {
				return err
			}

			cache := csvcache.New(cfg.Cache.Path)
			if err := cache.Write(cmd.Context(), obs); err != nil {
				return err
			}

			fmt.Printf("cached %d rows to %s\n", len(obs), cfg.Cache.Path)
			return nil
		},
	}
}
