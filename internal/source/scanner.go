package source

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dialektlab/entn/internal/logger"
)

// Record is one input sentence in file order.
type Record struct {
	ID      int64
	English string
}

// Scanner streams sentence records from a tab-separated file.
// It keeps no position state; resuming is the caller's concern.
//
// Two row shapes are accepted:
//
//	id<TAB>text
//	id<TAB>lang<TAB>text   (rows whose lang is not "eng" are skipped)
//
// Extra columns are ignored. Malformed rows are skipped, never fatal.
type Scanner struct {
	f       *os.File
	scanner *bufio.Scanner
	rec     Record
	line    int
	skipped int
}

const maxLineBytes = 1024 * 1024

// Open opens the input file for sequential scanning.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Scanner{f: f, scanner: sc}, nil
}

// Scan advances to the next well-formed English record.
// It returns false at end of input or on a read error; check Err.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		s.line++
		rec, ok := parseRow(s.scanner.Text())
		if !ok {
			s.skipped++
			logger.Debug("Skipping malformed or non-English row", "line", s.line)
			continue
		}
		s.rec = rec
		return true
	}
	return false
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() Record { return s.rec }

// Skipped returns the number of rows skipped so far.
func (s *Scanner) Skipped() int { return s.skipped }

// Err returns the first read error encountered, if any.
func (s *Scanner) Err() error { return s.scanner.Err() }

// Close closes the underlying file.
func (s *Scanner) Close() error { return s.f.Close() }

func parseRow(line string) (Record, bool) {
	parts := strings.Split(line, "\t")
	var idField, text string
	switch {
	case len(parts) >= 3:
		if strings.TrimSpace(parts[1]) != "eng" {
			return Record{}, false
		}
		idField, text = parts[0], parts[2]
	case len(parts) == 2:
		idField, text = parts[0], parts[1]
	default:
		return Record{}, false
	}

	id, err := strconv.ParseInt(strings.TrimSpace(idField), 10, 64)
	if err != nil {
		return Record{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Record{}, false
	}
	return Record{ID: id, English: text}, true
}
