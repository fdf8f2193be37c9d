package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"RecallScanner/internal/app"
	"RecallScanner/internal/config"
	"RecallScanner/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	var transformAgency, loadAgency string

	rootCmd := &cobra.Command{
		Use:           "recallscanner",
		Short:         "Ingest FDA and USDA food-safety recall notices into a unified dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetch the agency feeds and store their raw documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Extract(cmd.Context())
		},
	}

	transformCmd := &cobra.Command{
		Use:   "transform",
		Short: "Canonicalize one agency's raw documents into a staged batch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Transform(cmd.Context(), transformAgency)
		},
	}
	transformCmd.Flags().StringVar(&transformAgency, "agency", "fda", "agency source to transform (fda or usda)")

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Merge one agency's staged batch into the canonical record set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Load(cmd.Context(), loadAgency)
		},
	}
	loadCmd.Flags().StringVar(&loadAgency, "agency", "fda", "agency batch to load (fda or usda)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run extract, transform, and load for both agencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Run(cmd.Context())
		},
	}

	rootCmd.AddCommand(extractCmd, transformCmd, loadCmd, runCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
