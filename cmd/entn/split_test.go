package main

import (
	"os"
	"path/filepath"
	"testing"
)

const splitInput = "100\teng\tfirst\n101\teng\tsecond\n102\teng\tthird\n"

func writeSplitInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentences.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func TestSplitFromID_CopiesFromMatchingID(t *testing.T) {
	inputPath := writeSplitInput(t, splitInput)
	outputPath := filepath.Join(t.TempDir(), "tail.tsv")

	written, err := splitFromID(inputPath, outputPath, 101)
	if err != nil {
		t.Fatalf("splitFromID failed: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected 2 lines written, got %d", written)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "101\teng\tsecond\n102\teng\tthird\n"
	if string(data) != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", data, want)
	}
}

func TestSplitFromID_FirstID(t *testing.T) {
	inputPath := writeSplitInput(t, splitInput)
	outputPath := filepath.Join(t.TempDir(), "tail.tsv")

	written, err := splitFromID(inputPath, outputPath, 100)
	if err != nil {
		t.Fatalf("splitFromID failed: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected the whole file copied, got %d lines", written)
	}
}

func TestSplitFromID_NoPrefixConfusion(t *testing.T) {
	// Id 10 must not match the line starting with 100.
	inputPath := writeSplitInput(t, splitInput)
	outputPath := filepath.Join(t.TempDir(), "tail.tsv")

	if _, err := splitFromID(inputPath, outputPath, 10); err == nil {
		t.Fatal("expected error for id 10, which only appears as a prefix")
	}
}

func TestSplitFromID_AbsentIDRemovesOutput(t *testing.T) {
	inputPath := writeSplitInput(t, splitInput)
	outputPath := filepath.Join(t.TempDir(), "tail.tsv")

	if _, err := splitFromID(inputPath, outputPath, 999); err == nil {
		t.Fatal("expected error for absent id")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("partial output should have been removed")
	}
}

func TestSplitFromID_MissingInput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tail.tsv")
	if _, err := splitFromID(filepath.Join(t.TempDir(), "absent.tsv"), outputPath, 1); err == nil {
		t.Fatal("expected error for missing input")
	}
}
