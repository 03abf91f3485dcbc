package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dialektlab/entn/internal/apperrors"
)

var (
	pairHeader    = []string{"id", "english", "tunisian"}
	failureHeader = []string{"id", "english", "status"}
	retryHeader   = []string{"id", "english", "outcome"}
)

// csvAppender is an append-only CSV file. The header is written only
// when the file is created. Every row is flushed and fsynced before
// the append returns, so an interrupted run never leaves a torn row.
type csvAppender struct {
	f *os.File
	w *csv.Writer
}

func openAppender(path string, header []string) (*csvAppender, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, apperrors.IO(fmt.Errorf("failed to open %s: %w", path, err))
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apperrors.IO(fmt.Errorf("failed to stat %s: %w", path, err))
	}
	a := &csvAppender{f: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := a.append(header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *csvAppender) append(row []string) error {
	if err := a.w.Write(row); err != nil {
		return apperrors.IO(fmt.Errorf("failed to append row to %s: %w", a.f.Name(), err))
	}
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return apperrors.IO(fmt.Errorf("failed to flush %s: %w", a.f.Name(), err))
	}
	if err := a.f.Sync(); err != nil {
		return apperrors.IO(fmt.Errorf("failed to sync %s: %w", a.f.Name(), err))
	}
	return nil
}

func (a *csvAppender) close() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		a.f.Close()
		return err
	}
	return a.f.Close()
}

// Sink owns the two terminal outputs of the main pipeline. It is
// opened once per driver run and must be closed on every exit path.
type Sink struct {
	pairs    *csvAppender
	failures *csvAppender
}

// Open opens (or creates) the pair and failure outputs.
func Open(pairsPath, failedPath string) (*Sink, error) {
	pairs, err := openAppender(pairsPath, pairHeader)
	if err != nil {
		return nil, err
	}
	failures, err := openAppender(failedPath, failureHeader)
	if err != nil {
		pairs.close()
		return nil, err
	}
	return &Sink{pairs: pairs, failures: failures}, nil
}

// RecordSuccess appends a translated pair. The write is durable when
// the call returns.
func (s *Sink) RecordSuccess(p TranslatedPair) error {
	return s.pairs.append([]string{strconv.FormatInt(p.ID, 10), p.English, p.Tunisian})
}

// RecordFailure appends a failure row with its reason code.
func (s *Sink) RecordFailure(f FailureRecord) error {
	return s.failures.append([]string{strconv.FormatInt(f.ID, 10), f.English, string(f.Status)})
}

// Close flushes and closes both outputs.
func (s *Sink) Close() error {
	err := s.pairs.close()
	if err2 := s.failures.close(); err == nil {
		err = err2
	}
	return err
}

// PairWriter is the pairs-only appender used by the retry-failed
// driver, which must not touch the failure file.
type PairWriter struct {
	pairs *csvAppender
}

func OpenPairs(path string) (*PairWriter, error) {
	pairs, err := openAppender(path, pairHeader)
	if err != nil {
		return nil, err
	}
	return &PairWriter{pairs: pairs}, nil
}

func (w *PairWriter) RecordSuccess(p TranslatedPair) error {
	return w.pairs.append([]string{strconv.FormatInt(p.ID, 10), p.English, p.Tunisian})
}

func (w *PairWriter) Close() error { return w.pairs.close() }

// RetryLog is the append-only audit trail of the retry-failed driver.
type RetryLog struct {
	log *csvAppender
}

func OpenRetryLog(path string) (*RetryLog, error) {
	log, err := openAppender(path, retryHeader)
	if err != nil {
		return nil, err
	}
	return &RetryLog{log: log}, nil
}

func (l *RetryLog) Record(r RetryResult) error {
	return l.log.append([]string{strconv.FormatInt(r.ID, 10), r.English, r.Outcome})
}

func (l *RetryLog) Close() error { return l.log.close() }
