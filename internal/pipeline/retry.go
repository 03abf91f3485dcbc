package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dialektlab/entn/internal/apperrors"
	"github.com/dialektlab/entn/internal/klemy"
	"github.com/dialektlab/entn/internal/ratelimit"
)

// Status is the terminal classification of a translation attempt.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusNoTranslation Status = "no_translation"
	StatusError         Status = "error"
)

// Outcome is the terminal result of translating one sentence, after
// retries are exhausted. Err is set only for StatusError.
type Outcome struct {
	Tunisian string
	Status   Status
	Err      error
}

// translateWithRetry performs one rate-limited translation with fixed
// backoff on transient errors. It returns a non-nil error only when
// the run itself must stop (context canceled); every service-level
// outcome is folded into the Outcome.
//
// Backoff is fixed-interval rather than exponential: the service's
// rate expectations are a simple minimum spacing, and the limiter
// already enforces that floor on every attempt.
func translateWithRetry(ctx context.Context, client klemy.Translator, limiter *ratelimit.Limiter, maxRetries int, retryDelay time.Duration, id int64, english string, log *slog.Logger) (Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return Outcome{}, err
		}
		log.Debug("Requesting translation", "id", id, "attempt", attempt)

		translation, err := client.Translate(ctx, english)
		if err == nil {
			return Outcome{Tunisian: translation, Status: StatusSuccess}, nil
		}
		if errors.Is(err, klemy.ErrNoTranslation) {
			log.Debug("No translation offered by the service", "id", id)
			return Outcome{Status: StatusNoTranslation}, nil
		}
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}

		lastErr = err
		if !apperrors.IsRetryable(err) {
			log.Error("Translation failed without retry", "id", id, "error", err)
			return Outcome{Status: StatusError, Err: err}, nil
		}
		if attempt < maxRetries {
			log.Warn("Translation attempt failed; backing off", "id", id, "attempt", attempt, "max", maxRetries, "error", err)
			timer := time.NewTimer(retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Outcome{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	log.Error("Translation failed after maximum retries", "id", id, "attempts", maxRetries, "error", lastErr)
	return Outcome{Status: StatusError, Err: lastErr}, nil
}
