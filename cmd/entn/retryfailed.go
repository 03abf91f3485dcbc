package main

import (
	"time"

	"github.com/dialektlab/entn/internal/logger"
	"github.com/dialektlab/entn/internal/pipeline"
	"github.com/spf13/cobra"
)

type retryFailedOptions struct {
	commonOptions
	retryLogPath string
}

func newRetryFailedCmd() *cobra.Command {
	opts := retryFailedOptions{}
	cmd := &cobra.Command{
		Use:   "retry-failed",
		Short: "Replay the failed translations and log the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetryFailed(cmd, &opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.retryLogPath, "retry-log", pipeline.DefaultRetryLogPath, "Retry results audit CSV")
	addCommonFlags(cmd, &opts.commonOptions)
	return cmd
}

func runRetryFailed(cmd *cobra.Command, opts *retryFailedOptions) error {
	if err := initLogging(&opts.commonOptions); err != nil {
		return err
	}
	startTime := time.Now()

	cfg := pipeline.Config{
		PairsPath:    opts.pairsPath,
		FailedPath:   opts.failedPath,
		RetryLogPath: opts.retryLogPath,
		Endpoint:     resolveEndpoint(cmd.Flags(), opts.endpoint),
		RequestDelay: opts.requestDelay,
		MaxRetries:   opts.maxRetries,
		RetryDelay:   opts.retryDelay,
	}

	ctx, stop := signalContext()
	defer stop()

	stats, err := pipeline.RunRetryFailed(ctx, cfg)
	printRetryStats(stats, time.Since(startTime))
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Retry pass interrupted", "error", err)
		}
		return err
	}
	return nil
}
