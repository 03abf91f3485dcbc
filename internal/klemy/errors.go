package klemy

import (
	"context"
	"errors"
	"fmt"

	"github.com/dialektlab/entn/internal/apperrors"
	"github.com/rivo/uniseg"
)

// ErrNoTranslation means the service answered but offered no candidate.
// It is an outcome, not a failure, and is never retried.
var ErrNoTranslation = errors.New("no translation available")

func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == 429:
		return apperrors.New(apperrors.KindRateLimit,
			fmt.Sprintf("Translation service rate limit exceeded (%d).", code),
			fmt.Errorf("klemy request failed with status %d", code))
	case code >= 500:
		return apperrors.New(apperrors.KindTransient,
			fmt.Sprintf("Translation service temporary error (%d). Please retry.", code),
			fmt.Errorf("klemy request failed with status %d", code))
	default:
		return apperrors.New(apperrors.KindBadRequest,
			fmt.Sprintf("Translation request rejected (%d).", code),
			fmt.Errorf("klemy request failed with status %d", code))
	}
}

// Non-HTTP transport failures (DNS, socket, timeout, etc.) should be
// retried because they are usually transient. Context cancellation is
// passed through untouched so the caller can tell interruption apart.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return apperrors.New(apperrors.KindTransient,
		"Translation request failed due to a temporary network error.",
		fmt.Errorf("klemy request failed: %w", err))
}

// validateTranslation rejects extractions that are implausibly long for
// the input, which usually means the page markup changed and the
// paragraph match swallowed unrelated content.
func validateTranslation(input, translation string) error {
	limit := uniseg.GraphemeClusterCount(input)*12 + 80
	if got := uniseg.GraphemeClusterCount(translation); got > limit {
		return apperrors.New(apperrors.KindBadRequest,
			"Extracted translation is implausibly long; page markup may have changed.",
			fmt.Errorf("translation length %d graphemes exceeds limit %d", got, limit))
	}
	return nil
}
