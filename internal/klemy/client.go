package klemy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dialektlab/entn/internal/apperrors"
	"github.com/dialektlab/entn/internal/httpclient"
	"github.com/sony/gobreaker"
)

// DefaultEndpoint is the public staging endpoint of the Klemy service.
const DefaultEndpoint = "https://klemy.qodek.net/staging"

const (
	targetLang     = "Tunisian Dialect"
	outputAlphabet = "Arabic"
)

// Translator is the outbound contract of the translation service.
// Implementations return the Tunisian text, ErrNoTranslation when the
// service has no candidate, or a classified error (see apperrors).
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Client talks to the Klemy HTML endpoint. The service renders a full
// page; the translation lives in a single fs-3 paragraph.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Ensure Client implements Translator
var _ Translator = (*Client)(nil)

// NewClient creates a client for the given endpoint. A nil httpClient
// falls back to the shared hardened client.
func NewClient(endpoint string, hc *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if hc == nil {
		hc = httpclient.GetDefaultClient()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "klemy",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 10
		},
		// Only network-level trouble should open the breaker. A page
		// without a translation or a rejected request is a healthy
		// service saying no.
		IsSuccessful: func(err error) bool {
			return err == nil || !apperrors.IsRetryable(err)
		},
	})
	return &Client{
		endpoint:   endpoint,
		httpClient: hc,
		breaker:    breaker,
	}
}

// Translate posts the English text and extracts the Tunisian paragraph
// from the HTML reply.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{
		"target_lang":     {targetLang},
		"output_alphabet": {outputAlphabet},
		"text":            {text},
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, apperrors.BadRequest(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "*/*")

		body, resp, err := httpclient.DoAndRead(c.httpClient, req)
		if err != nil {
			return nil, classifyTransportError(ctx, err)
		}
		if err := classifyStatus(resp.StatusCode); err != nil {
			return nil, err
		}
		return string(body), nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", apperrors.New(apperrors.KindTransient, "Translation service circuit open; backing off.", err)
		}
		return "", err
	}

	html := result.(string)
	translation, ok := ExtractTranslation(html)
	if !ok {
		return "", ErrNoTranslation
	}
	if err := validateTranslation(text, translation); err != nil {
		return "", err
	}
	return translation, nil
}
