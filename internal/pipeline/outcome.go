package pipeline

import (
	"time"

	"github.com/joseph-ayodele/receipts-renamer/constants"
)

// Outcome is the result of processing one document.
type Outcome struct {
	DocumentID string
	Name       string
	NewName    string
	Status     constants.OutcomeStatus
	Err        error
}

// Summary aggregates a run.
type Summary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Scanned      int
	Renamed      int
	Skipped      int
	Failed       int
	RootFailures int
	// WalkErrors counts folder listings that failed; they are not documents and do not count as scanned.
	WalkErrors int
	Outcomes   []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Scanned++
	switch {
	case o.Status == constants.OutcomeRenamed:
		s.Renamed++
	case o.Status == constants.OutcomeSkipped:
		s.Skipped++
	case o.Status.Failed():
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// ErrorText is the outcome error as a string, empty when there is none.
func (o Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
