package sink

// Status is the terminal classification of a failed record.
type Status string

const (
	StatusNoTranslation Status = "no_translation"
	StatusError         Status = "error"
)

// TranslatedPair is one successfully translated sentence. Pairs are
// appended exactly once per distinct id across the lifetime of the
// output file.
type TranslatedPair struct {
	ID       int64
	English  string
	Tunisian string
}

// FailureRecord is one sentence with a terminal non-success outcome.
type FailureRecord struct {
	ID      int64
	English string
	Status  Status
}

// RetryResult is an audit entry of the retry-failed pass. It never
// feeds back into the checkpoint.
type RetryResult struct {
	ID      int64
	English string
	Outcome string
}

// Retry-failed outcomes beyond the failure statuses above.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
)
