package pipeline

import (
	"context"
	"fmt"

	"github.com/dialektlab/entn/internal/checkpoint"
	"github.com/dialektlab/entn/internal/logger"
	"github.com/dialektlab/entn/internal/ratelimit"
	"github.com/dialektlab/entn/internal/sink"
	"github.com/dialektlab/entn/internal/source"
	"github.com/google/uuid"
)

// Stats summarizes a scrape run.
type Stats struct {
	Processed int // records translated this run (success or failure)
	Succeeded int
	Failed    int
	Skipped   int // records already covered by checkpoint or outputs
}

// RunScrape executes the main ingestion pipeline: stream input records,
// skip everything at or below the checkpoint, rate-limit, translate with
// retry, append the outcome to the sink, then advance the checkpoint.
//
// The sink write always precedes the checkpoint save, so a crash at any
// point loses no committed work; at worst the record in flight is seen
// again on resume and filtered by the recorded-id index.
func RunScrape(ctx context.Context, cfg Config) (Stats, error) {
	var stats Stats

	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return stats, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.With("run_id", uuid.NewString())
	client := cfg.client()

	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return stats, err
	}
	defer src.Close()

	ckpt := checkpoint.New(cfg.CheckpointPath)
	last, resuming, err := ckpt.Load()
	if err != nil {
		return stats, err
	}
	if resuming {
		log.Info("Resuming from checkpoint", "last_id", last, "path", ckpt.Path())
	}

	// Ids already present in either output: covers the one-record window
	// where a previous run crashed after the sink write but before the
	// checkpoint save.
	recorded, err := sink.RecordedIDs(cfg.PairsPath, cfg.FailedPath)
	if err != nil {
		return stats, err
	}

	snk, err := sink.Open(cfg.PairsPath, cfg.FailedPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := snk.Close(); cerr != nil {
			log.Error("Failed to close result sink", "error", cerr)
		}
	}()

	limiter := ratelimit.New(cfg.RequestDelay)
	log.Info("Starting scrape", "input", cfg.InputPath, "request_delay", cfg.RequestDelay, "max_retries", cfg.MaxRetries)

	for src.Scan() {
		rec := src.Record()

		if resuming && rec.ID <= last {
			stats.Skipped++
			continue
		}
		if recorded[rec.ID] {
			log.Warn("Record already has a terminal outcome; advancing checkpoint only", "id", rec.ID)
			if err := ckpt.Save(rec.ID); err != nil {
				return stats, err
			}
			last, resuming = rec.ID, true
			stats.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := translateWithRetry(ctx, client, limiter, cfg.MaxRetries, cfg.RetryDelay, rec.ID, rec.English, log)
		if err != nil {
			return stats, err
		}

		switch outcome.Status {
		case StatusSuccess:
			if err := snk.RecordSuccess(sink.TranslatedPair{ID: rec.ID, English: rec.English, Tunisian: outcome.Tunisian}); err != nil {
				return stats, err
			}
			stats.Succeeded++
			log.Info("Translated", "id", rec.ID)
		case StatusNoTranslation:
			if err := snk.RecordFailure(sink.FailureRecord{ID: rec.ID, English: rec.English, Status: sink.StatusNoTranslation}); err != nil {
				return stats, err
			}
			stats.Failed++
			log.Warn("No translation found", "id", rec.ID, "english", rec.English)
		case StatusError:
			if err := snk.RecordFailure(sink.FailureRecord{ID: rec.ID, English: rec.English, Status: sink.StatusError}); err != nil {
				return stats, err
			}
			stats.Failed++
		}
		stats.Processed++

		if err := ckpt.Save(rec.ID); err != nil {
			return stats, err
		}
		last, resuming = rec.ID, true
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	log.Info("Scrape complete",
		"processed", stats.Processed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"malformed_rows", src.Skipped(),
	)
	return stats, nil
}
