package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/dialektlab/entn/internal/klemy"
)

func TestConfig_NormalizeFillsDefaults(t *testing.T) {
	cfg, notes := Config{}.Normalize()

	if cfg.InputPath != DefaultInputPath {
		t.Errorf("expected default input path, got %q", cfg.InputPath)
	}
	if cfg.PairsPath != DefaultPairsPath || cfg.FailedPath != DefaultFailedPath {
		t.Errorf("output paths not defaulted: %+v", cfg)
	}
	if cfg.CheckpointPath != DefaultCheckpointPath {
		t.Errorf("expected default checkpoint path, got %q", cfg.CheckpointPath)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected default max retries, got %d", cfg.MaxRetries)
	}
	if len(notes) != 0 {
		t.Errorf("defaulting should not produce notes, got %v", notes)
	}

	// Zero delays are a deliberate choice, not an omission.
	if cfg.RequestDelay != 0 || cfg.RetryDelay != 0 {
		t.Errorf("zero delays must survive Normalize: %+v", cfg)
	}
}

func TestConfig_NormalizeClampsMaxRetries(t *testing.T) {
	cfg, notes := Config{MaxRetries: 50}.Normalize()
	if cfg.MaxRetries != MaxRetriesCeiling {
		t.Fatalf("expected max retries clamped to %d, got %d", MaxRetriesCeiling, cfg.MaxRetries)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "max-retries") {
		t.Fatalf("expected a clamp note, got %v", notes)
	}
}

func TestConfig_NormalizeRaisesNegativeDelays(t *testing.T) {
	cfg, notes := Config{RequestDelay: -time.Second, RetryDelay: -time.Second}.Normalize()
	if cfg.RequestDelay != 0 || cfg.RetryDelay != 0 {
		t.Fatalf("negative delays should be raised to 0: %+v", cfg)
	}
	if len(notes) != 2 {
		t.Fatalf("expected two notes, got %v", notes)
	}
}

func TestConfig_ValidateRequiresEndpointOrClient(t *testing.T) {
	cfg, _ := Config{}.Normalize()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when both endpoint and client are unset")
	}

	cfg.Client = &klemy.MockClient{Translation: "مرحبا"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("client alone should satisfy validation: %v", err)
	}

	cfg.Client = nil
	cfg.Endpoint = klemy.DefaultEndpoint
	if err := cfg.Validate(); err != nil {
		t.Fatalf("endpoint alone should satisfy validation: %v", err)
	}
}

func TestConfig_ClientPrefersOverride(t *testing.T) {
	mock := &klemy.MockClient{Translation: "مرحبا"}
	cfg := Config{Client: mock, Endpoint: klemy.DefaultEndpoint}
	if cfg.client() != klemy.Translator(mock) {
		t.Fatal("configured client should take precedence over the endpoint")
	}

	cfg.Client = nil
	if _, ok := cfg.client().(*klemy.Client); !ok {
		t.Fatalf("expected a service client, got %T", cfg.client())
	}
}
