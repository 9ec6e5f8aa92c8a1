package discover

import "log/slog"

// Outcome describes what happened to a single examined candidate.
type Outcome int

const (
	// OutcomeAdded means the resolved URL was appended to the result.
	OutcomeAdded Outcome = iota

	// OutcomeDuplicate means the resolved URL was already in the result.
	OutcomeDuplicate

	// OutcomeMalformed means the candidate could not be resolved to an
	// absolute URL and was skipped.
	OutcomeMalformed
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Observer receives progress events from a Discoverer.
// Implementations must be safe for concurrent use when the same Discoverer
// is shared between goroutines.
type Observer interface {
	// Fetched is called once the seed document has been read.
	Fetched(seed string, statusCode int, size int)

	// CandidatesFound is called after extraction with the number of
	// root-relative candidates and the effective cap derived from it.
	CandidatesFound(seed string, count int, effectiveCap int)

	// CandidateExamined is called for every candidate the discoverer looks at.
	CandidateExamined(seed string, index int, candidate string, outcome Outcome)
}

// NopObserver ignores every event.
type NopObserver struct{}

// Fetched implements Observer.
func (NopObserver) Fetched(string, int, int) {}

// CandidatesFound implements Observer.
func (NopObserver) CandidatesFound(string, int, int) {}

// CandidateExamined implements Observer.
func (NopObserver) CandidateExamined(string, int, string, Outcome) {}

// LogObserver writes events to a structured logger at debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer backed by logger.
// A nil logger falls back to slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// Fetched implements Observer.
func (o *LogObserver) Fetched(seed string, statusCode int, size int) {
	o.logger.Debug("seed fetched",
		"url", seed,
		"status", statusCode,
		"bytes", size,
	)
}

// CandidatesFound implements Observer.
func (o *LogObserver) CandidatesFound(seed string, count int, effectiveCap int) {
	o.logger.Debug("relative links found",
		"url", seed,
		"candidates", count,
		"effective_cap", effectiveCap,
	)
}

// CandidateExamined implements Observer.
func (o *LogObserver) CandidateExamined(seed string, index int, candidate string, outcome Outcome) {
	o.logger.Debug("candidate examined",
		"url", seed,
		"index", index,
		"candidate", candidate,
		"outcome", outcome.String(),
	)
}
