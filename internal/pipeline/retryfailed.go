package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/dialektlab/entn/internal/logger"
	"github.com/dialektlab/entn/internal/ratelimit"
	"github.com/dialektlab/entn/internal/sink"
	"github.com/google/uuid"
)

// RetryStats summarizes a retry-failed run.
type RetryStats struct {
	Attempted   int
	Recovered   int
	Duplicates  int
	StillFailed int
}

// RunRetryFailed replays every failure record through the same retry
// controller and translation client as the main pipeline. Recovered
// sentences are appended to the pair output unless their id is already
// there; every replay leaves an audit row in the retry results log.
//
// The failure file itself is never mutated and the checkpoint is never
// touched: this driver is independent of the main pipeline's position.
func RunRetryFailed(ctx context.Context, cfg Config) (RetryStats, error) {
	var stats RetryStats

	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.ValidateRetry(); err != nil {
		return stats, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.With("run_id", uuid.NewString())

	failures, err := sink.ReadFailures(cfg.FailedPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("No failure file found; nothing to retry", "path", cfg.FailedPath)
			return stats, nil
		}
		return stats, err
	}
	if len(failures) == 0 {
		log.Info("No failed translations to retry")
		return stats, nil
	}
	log.Info("Retrying failed translations", "count", len(failures))

	// Index the pair output before appending so a repeated retry pass
	// cannot create a second pair row for the same id.
	pairIDs, err := sink.PairIDs(cfg.PairsPath)
	if err != nil {
		return stats, err
	}

	pairs, err := sink.OpenPairs(cfg.PairsPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := pairs.Close(); cerr != nil {
			log.Error("Failed to close pair output", "error", cerr)
		}
	}()

	retryLog, err := sink.OpenRetryLog(cfg.RetryLogPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := retryLog.Close(); cerr != nil {
			log.Error("Failed to close retry results log", "error", cerr)
		}
	}()

	client := cfg.client()
	limiter := ratelimit.New(cfg.RequestDelay)

	for _, failure := range failures {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := translateWithRetry(ctx, client, limiter, cfg.MaxRetries, cfg.RetryDelay, failure.ID, failure.English, log)
		if err != nil {
			return stats, err
		}
		stats.Attempted++

		switch outcome.Status {
		case StatusSuccess:
			if pairIDs[failure.ID] {
				if err := retryLog.Record(sink.RetryResult{ID: failure.ID, English: failure.English, Outcome: sink.OutcomeDuplicate}); err != nil {
					return stats, err
				}
				stats.Duplicates++
				log.Info("Translation recovered but already recorded", "id", failure.ID)
				continue
			}
			if err := pairs.RecordSuccess(sink.TranslatedPair{ID: failure.ID, English: failure.English, Tunisian: outcome.Tunisian}); err != nil {
				return stats, err
			}
			pairIDs[failure.ID] = true
			if err := retryLog.Record(sink.RetryResult{ID: failure.ID, English: failure.English, Outcome: sink.OutcomeSuccess}); err != nil {
				return stats, err
			}
			stats.Recovered++
			log.Info("Translation recovered", "id", failure.ID)
		default:
			if err := retryLog.Record(sink.RetryResult{ID: failure.ID, English: failure.English, Outcome: string(outcome.Status)}); err != nil {
				return stats, err
			}
			stats.StillFailed++
		}
	}

	log.Info("Retry pass complete",
		"attempted", stats.Attempted,
		"recovered", stats.Recovered,
		"duplicates", stats.Duplicates,
		"still_failed", stats.StillFailed,
	)
	return stats, nil
}
