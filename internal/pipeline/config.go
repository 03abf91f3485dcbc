package pipeline

import (
	"fmt"
	"time"

	"github.com/dialektlab/entn/internal/klemy"
)

// Default file locations, matching the layout the scraper has always used.
const (
	DefaultInputPath      = "eng_sentences.tsv"
	DefaultPairsPath      = "en_tn_couples.csv"
	DefaultFailedPath     = "failed_translations.csv"
	DefaultRetryLogPath   = "retry_results.csv"
	DefaultCheckpointPath = ".entn_checkpoint"
)

// Startup constants for pacing and retries.
const (
	DefaultRequestDelay = 5 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 5 * time.Second

	MaxRetriesCeiling = 10
)

// Config holds everything a driver run needs. It is built once at
// startup and never mutated afterwards.
type Config struct {
	// IO paths
	InputPath      string
	PairsPath      string
	FailedPath     string
	RetryLogPath   string
	CheckpointPath string

	// Translation service
	Endpoint string
	// Client overrides the service client; when nil a klemy.Client for
	// Endpoint is constructed. Used by tests and alternative transports.
	Client klemy.Translator

	// Pacing and retries
	RequestDelay time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// Normalize fills zero values with defaults and applies safe bounds,
// returning any adjustments made.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.InputPath == "" {
		c.InputPath = DefaultInputPath
	}
	if c.PairsPath == "" {
		c.PairsPath = DefaultPairsPath
	}
	if c.FailedPath == "" {
		c.FailedPath = DefaultFailedPath
	}
	if c.RetryLogPath == "" {
		c.RetryLogPath = DefaultRetryLogPath
	}
	if c.CheckpointPath == "" {
		c.CheckpointPath = DefaultCheckpointPath
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxRetries > MaxRetriesCeiling {
		notes = append(notes, fmt.Sprintf("max-retries clamped from %d to %d", c.MaxRetries, MaxRetriesCeiling))
		c.MaxRetries = MaxRetriesCeiling
	}
	if c.RequestDelay < 0 {
		notes = append(notes, fmt.Sprintf("request-delay %s raised to 0", c.RequestDelay))
		c.RequestDelay = 0
	}
	if c.RetryDelay < 0 {
		notes = append(notes, fmt.Sprintf("retry-delay %s raised to 0", c.RetryDelay))
		c.RetryDelay = 0
	}
	return c, notes
}

// Validate checks the configuration for a scrape run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	return c.validateCommon()
}

// ValidateRetry checks the configuration for a retry-failed run.
func (c Config) ValidateRetry() error {
	if c.FailedPath == "" {
		return fmt.Errorf("failure file path is required")
	}
	if c.RetryLogPath == "" {
		return fmt.Errorf("retry log path is required")
	}
	return c.validateCommon()
}

func (c Config) validateCommon() error {
	if c.Client == nil && c.Endpoint == "" {
		return fmt.Errorf("translation endpoint is required")
	}
	if c.PairsPath == "" {
		return fmt.Errorf("pair output path is required")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("maxRetries must be greater than 0, got %d", c.MaxRetries)
	}
	return nil
}

func (c Config) client() klemy.Translator {
	if c.Client != nil {
		return c.Client
	}
	return klemy.NewClient(c.Endpoint, nil)
}
