package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialektlab/entn/internal/cleanup"
	"github.com/dialektlab/entn/internal/klemy"
	"github.com/dialektlab/entn/internal/logger"
	"github.com/dialektlab/entn/internal/pipeline"
	"github.com/spf13/pflag"
)

// endpointEnvVar overrides the translation endpoint without a flag.
const endpointEnvVar = "ENTN_URL"

const defaultEndpoint = klemy.DefaultEndpoint

// commonOptions are shared by the scrape and retry-failed commands.
type commonOptions struct {
	pairsPath    string
	failedPath   string
	endpoint     string
	requestDelay time.Duration
	maxRetries   int
	retryDelay   time.Duration
	logFilePath  string
	debug        bool
}

// resolveEndpoint prefers an explicitly set flag, then the environment,
// then the public endpoint.
func resolveEndpoint(flags *pflag.FlagSet, flagValue string) string {
	if flags.Changed("endpoint") && flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(endpointEnvVar); env != "" {
		return env
	}
	return defaultEndpoint
}

// initLogging sets up the console logger and the append-only debug log.
func initLogging(opts *commonOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	if opts.logFilePath == "" {
		logger.Init(logLevel, nil)
		return nil
	}
	f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open debug log file: %w", err)
	}
	cleanup.Register("debug log", f.Close)
	logger.Init(logLevel, f)
	return nil
}

// signalContext cancels on SIGINT/SIGTERM so the in-flight record's
// sink write and checkpoint save can finish before the process exits.
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Interrupt received; finishing the record in flight")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}

func printScrapeStats(stats pipeline.Stats, duration time.Duration) {
	fmt.Println("\n--- Scrape Summary ---")
	fmt.Printf("Time: %s\n", duration.Round(time.Second))
	fmt.Printf("Translated: %d\n", stats.Succeeded)
	fmt.Printf("Failed: %d\n", stats.Failed)
	fmt.Printf("Skipped (already done): %d\n", stats.Skipped)
}

func printRetryStats(stats pipeline.RetryStats, duration time.Duration) {
	fmt.Println("\n--- Retry Summary ---")
	fmt.Printf("Time: %s\n", duration.Round(time.Second))
	fmt.Printf("Attempted: %d\n", stats.Attempted)
	fmt.Printf("Recovered: %d\n", stats.Recovered)
	fmt.Printf("Already recorded: %d\n", stats.Duplicates)
	fmt.Printf("Still failed: %d\n", stats.StillFailed)
}
