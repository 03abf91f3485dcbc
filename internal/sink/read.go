package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dialektlab/entn/internal/apperrors"
	"github.com/dialektlab/entn/internal/logger"
)

// PairIDs indexes the pair output by id. An absent file yields an
// empty index. Used to keep the retry-failed driver from appending a
// duplicate pair for an id that already succeeded.
func PairIDs(path string) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	rows, err := readRows(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, err
	}
	for _, row := range rows {
		if len(row) < 1 {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids, nil
}

// RecordedIDs unions the ids of the pair and failure outputs. A record
// present in either file already has a durable terminal outcome.
func RecordedIDs(pairsPath, failedPath string) (map[int64]bool, error) {
	ids, err := PairIDs(pairsPath)
	if err != nil {
		return nil, err
	}
	failures, err := ReadFailures(failedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, err
	}
	for _, f := range failures {
		ids[f.ID] = true
	}
	return ids, nil
}

// ReadFailures loads every failure record from the failure output.
// Rows with an unparseable id are skipped with a warning; a torn file
// is an infrastructure error.
func ReadFailures(path string) ([]FailureRecord, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	records := make([]FailureRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			logger.Warn("Skipping short failure row", "path", path, "row", i+2)
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			logger.Warn("Skipping failure row with bad id", "path", path, "row", i+2, "id", row[0])
			continue
		}
		records = append(records, FailureRecord{
			ID:      id,
			English: row[1],
			Status:  Status(row[2]),
		})
	}
	return records, nil
}

// readRows returns all data rows of a CSV file, header excluded.
// Raw os.IsNotExist errors pass through so callers can distinguish
// an absent file from a corrupt one.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, apperrors.IO(fmt.Errorf("failed to read header of %s: %w", path, err))
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.IO(fmt.Errorf("failed to parse %s: %w", path, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
