package constants

// OutcomeStatus is the terminal state of one document within a run.
type OutcomeStatus string

// Stable values (these exact strings appear in logs and exported reports).
const (
	OutcomeRenamed          OutcomeStatus = "renamed"           // renamed and marked processed
	OutcomeSkipped          OutcomeStatus = "skipped"           // already marked processed
	OutcomeParseFailure     OutcomeStatus = "parse_failure"     // no JSON object in model text
	OutcomeJSONMalformed    OutcomeStatus = "json_malformed"    // JSON object failed to parse or validate
	OutcomeTransportFailure OutcomeStatus = "transport_failure" // inference endpoint unreachable
	OutcomeRenameFailure    OutcomeStatus = "rename_failure"
	OutcomeMarkFailure      OutcomeStatus = "mark_failure" // renamed, but mark not committed
	OutcomeStorageFailure   OutcomeStatus = "storage_failure"
)

// Failed reports whether the status counts as a failed document.
func (s OutcomeStatus) Failed() bool {
	return s != OutcomeRenamed && s != OutcomeSkipped
}
