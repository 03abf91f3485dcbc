package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dialektlab/entn/internal/apperrors"
	"github.com/dialektlab/entn/internal/checkpoint"
	"github.com/dialektlab/entn/internal/klemy"
	"github.com/dialektlab/entn/internal/sink"
)

func testConfig(t *testing.T, input string, client klemy.Translator) Config {
	t.Helper()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sentences.tsv")
	if err := os.WriteFile(inputPath, []byte(input), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return Config{
		InputPath:      inputPath,
		PairsPath:      filepath.Join(dir, "pairs.csv"),
		FailedPath:     filepath.Join(dir, "failed.csv"),
		RetryLogPath:   filepath.Join(dir, "retry_results.csv"),
		CheckpointPath: filepath.Join(dir, ".checkpoint"),
		Client:         client,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return rows
}

// exampleClient translates the first sample sentence and reports no
// translation for everything else.
func exampleClient() klemy.Translator {
	return translatorFunc(func(ctx context.Context, text string) (string, error) {
		if text == "Let's try something." {
			return "خلينا نجربو حاجة", nil
		}
		return "", klemy.ErrNoTranslation
	})
}

const exampleInput = "1276\tLet's try something.\n1277\tI have to go to sleep.\n"

func TestRunScrape_EndToEnd(t *testing.T) {
	cfg := testConfig(t, exampleInput, exampleClient())

	stats, err := RunScrape(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunScrape failed: %v", err)
	}
	if stats.Succeeded != 1 || stats.Failed != 1 || stats.Processed != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	pairs := readCSV(t, cfg.PairsPath)
	if len(pairs) != 2 {
		t.Fatalf("expected header + 1 pair row, got %d", len(pairs))
	}
	want := []string{"1276", "Let's try something.", "خلينا نجربو حاجة"}
	for i, col := range want {
		if pairs[1][i] != col {
			t.Errorf("pair column %d: expected %q, got %q", i, col, pairs[1][i])
		}
	}

	failed := readCSV(t, cfg.FailedPath)
	if len(failed) != 2 {
		t.Fatalf("expected header + 1 failure row, got %d", len(failed))
	}
	wantFail := []string{"1277", "I have to go to sleep.", "no_translation"}
	for i, col := range wantFail {
		if failed[1][i] != col {
			t.Errorf("failure column %d: expected %q, got %q", i, col, failed[1][i])
		}
	}
}

func TestRunScrape_ResumeAddsNoRows(t *testing.T) {
	cfg := testConfig(t, exampleInput, exampleClient())

	if _, err := RunScrape(context.Background(), cfg); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	pairsBefore, err := os.ReadFile(cfg.PairsPath)
	if err != nil {
		t.Fatalf("read pairs: %v", err)
	}
	failedBefore, err := os.ReadFile(cfg.FailedPath)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	stats, err := RunScrape(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if stats.Processed != 0 || stats.Skipped != 2 {
		t.Fatalf("expected everything skipped on resume, got %+v", stats)
	}

	pairsAfter, _ := os.ReadFile(cfg.PairsPath)
	failedAfter, _ := os.ReadFile(cfg.FailedPath)
	if string(pairsBefore) != string(pairsAfter) {
		t.Error("pair output changed on resume")
	}
	if string(failedBefore) != string(failedAfter) {
		t.Error("failure output changed on resume")
	}
}

func TestRunScrape_SkipsAtOrBelowCheckpoint(t *testing.T) {
	var translated []string
	client := translatorFunc(func(ctx context.Context, text string) (string, error) {
		translated = append(translated, text)
		return "ترجمة", nil
	})
	cfg := testConfig(t, exampleInput, client)

	if err := checkpoint.New(cfg.CheckpointPath).Save(1276); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	stats, err := RunScrape(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunScrape failed: %v", err)
	}
	if stats.Skipped != 1 || stats.Processed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(translated) != 1 || translated[0] != "I have to go to sleep." {
		t.Fatalf("expected only the second sentence translated, got %v", translated)
	}
}

func TestRunScrape_CheckpointTracksLastID(t *testing.T) {
	cfg := testConfig(t, exampleInput, exampleClient())

	if _, err := RunScrape(context.Background(), cfg); err != nil {
		t.Fatalf("RunScrape failed: %v", err)
	}
	id, ok, err := checkpoint.New(cfg.CheckpointPath).Load()
	if err != nil || !ok {
		t.Fatalf("checkpoint load failed: id=%d ok=%v err=%v", id, ok, err)
	}
	if id != 1277 {
		t.Fatalf("expected checkpoint 1277, got %d", id)
	}
}

func TestRunScrape_CrashWindowDoesNotDuplicate(t *testing.T) {
	// Simulate a crash after the sink write but before the checkpoint
	// save: the pair row exists, the checkpoint file does not.
	var calls int
	client := translatorFunc(func(ctx context.Context, text string) (string, error) {
		calls++
		return "ترجمة", nil
	})
	cfg := testConfig(t, exampleInput, client)

	s, err := sink.Open(cfg.PairsPath, cfg.FailedPath)
	if err != nil {
		t.Fatalf("seed sink: %v", err)
	}
	if err := s.RecordSuccess(sink.TranslatedPair{ID: 1276, English: "Let's try something.", Tunisian: "خلينا نجربو حاجة"}); err != nil {
		t.Fatalf("seed pair: %v", err)
	}
	s.Close()

	stats, err := RunScrape(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunScrape failed: %v", err)
	}
	if stats.Skipped != 1 || stats.Processed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if calls != 1 {
		t.Fatalf("expected 1 translation call, got %d", calls)
	}

	pairs := readCSV(t, cfg.PairsPath)
	seen := 0
	for _, row := range pairs[1:] {
		if row[0] == "1276" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one pair row for 1276, got %d", seen)
	}

	id, ok, _ := checkpoint.New(cfg.CheckpointPath).Load()
	if !ok || id < 1276 {
		t.Fatalf("checkpoint did not advance past recovered record: id=%d ok=%v", id, ok)
	}
}

func TestRunScrape_EveryIDGetsExactlyOneTerminalRecord(t *testing.T) {
	input := "1\teng\tone\n2\teng\ttwo\n3\teng\tthree\n4\teng\tfour\n"
	client := translatorFunc(func(ctx context.Context, text string) (string, error) {
		switch text {
		case "one":
			return "واحد", nil
		case "two":
			return "", klemy.ErrNoTranslation
		case "three":
			return "", apperrors.Transient(errors.New("boom"))
		default:
			return "", apperrors.BadRequest(errors.New("rejected"))
		}
	})
	cfg := testConfig(t, input, client)
	cfg.MaxRetries = 2

	stats, err := RunScrape(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunScrape failed: %v", err)
	}
	if stats.Succeeded != 1 || stats.Failed != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	seen := map[string]int{}
	for _, row := range readCSV(t, cfg.PairsPath)[1:] {
		seen[row[0]]++
	}
	for _, row := range readCSV(t, cfg.FailedPath)[1:] {
		seen[row[0]]++
	}
	for _, id := range []string{"1", "2", "3", "4"} {
		if seen[id] != 1 {
			t.Errorf("id %s has %d terminal records, want 1", id, seen[id])
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct ids, got %d", len(seen))
	}

	// Exhausted transient and fatal errors both surface as status "error".
	for _, row := range readCSV(t, cfg.FailedPath)[1:] {
		if row[0] == "3" || row[0] == "4" {
			if row[2] != "error" {
				t.Errorf("id %s: expected status error, got %q", row[0], row[2])
			}
		}
	}
}

func TestRunScrape_MissingInputFails(t *testing.T) {
	cfg := testConfig(t, "", exampleClient())
	cfg.InputPath = filepath.Join(t.TempDir(), "absent.tsv")
	if _, err := RunScrape(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunScrape_CanceledBeforeWork(t *testing.T) {
	cfg := testConfig(t, exampleInput, exampleClient())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := RunScrape(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats.Processed != 0 {
		t.Fatalf("expected no records processed, got %+v", stats)
	}

	// Outputs must still be parseable: headers only.
	if rows := readCSV(t, cfg.PairsPath); len(rows) != 1 {
		t.Fatalf("expected header-only pair output, got %d rows", len(rows))
	}
}

func TestRunScrape_CorruptCheckpointAborts(t *testing.T) {
	cfg := testConfig(t, exampleInput, exampleClient())
	if err := os.WriteFile(cfg.CheckpointPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}
	if _, err := RunScrape(context.Background(), cfg); err == nil {
		t.Fatal("expected error for corrupt checkpoint")
	}
}
