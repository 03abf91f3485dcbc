package main

import (
	"time"

	"github.com/dialektlab/entn/internal/logger"
	"github.com/dialektlab/entn/internal/pipeline"
	"github.com/spf13/cobra"
)

type scrapeOptions struct {
	commonOptions
	inputPath      string
	checkpointPath string
}

func newScrapeCmd() *cobra.Command {
	opts := scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Translate the input sentences, resuming from the checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, &opts)
		},
		SilenceUsage: true,
	}
	addScrapeFlags(cmd, &opts)
	return cmd
}

func addScrapeFlags(cmd *cobra.Command, opts *scrapeOptions) {
	cmd.Flags().StringVar(&opts.inputPath, "input", pipeline.DefaultInputPath, "Tab-separated sentence file")
	cmd.Flags().StringVar(&opts.checkpointPath, "checkpoint", pipeline.DefaultCheckpointPath, "Checkpoint file")
	addCommonFlags(cmd, &opts.commonOptions)
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.pairsPath, "pairs", pipeline.DefaultPairsPath, "Translated pair output CSV")
	cmd.Flags().StringVar(&opts.failedPath, "failed", pipeline.DefaultFailedPath, "Failed translation output CSV")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Translation service URL (default $"+endpointEnvVar+" or the public endpoint)")
	cmd.Flags().DurationVar(&opts.requestDelay, "request-delay", pipeline.DefaultRequestDelay, "Minimum spacing between requests")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", pipeline.DefaultMaxRetries, "Total attempts per sentence on transient errors")
	cmd.Flags().DurationVar(&opts.retryDelay, "retry-delay", pipeline.DefaultRetryDelay, "Fixed backoff between retry attempts")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "entn_debug.log", "Append-only JSONL debug log (empty to disable)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging on the console")
}

func runScrape(cmd *cobra.Command, opts *scrapeOptions) error {
	if err := initLogging(&opts.commonOptions); err != nil {
		return err
	}
	startTime := time.Now()

	cfg := pipeline.Config{
		InputPath:      opts.inputPath,
		PairsPath:      opts.pairsPath,
		FailedPath:     opts.failedPath,
		CheckpointPath: opts.checkpointPath,
		Endpoint:       resolveEndpoint(cmd.Flags(), opts.endpoint),
		RequestDelay:   opts.requestDelay,
		MaxRetries:     opts.maxRetries,
		RetryDelay:     opts.retryDelay,
	}

	ctx, stop := signalContext()
	defer stop()

	stats, err := pipeline.RunScrape(ctx, cfg)
	printScrapeStats(stats, time.Since(startTime))
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Scrape interrupted; run again to resume", "error", err)
		}
		return err
	}
	return nil
}
