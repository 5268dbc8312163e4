package model

import "time"

// Details carries structured diagnostic payload attached to a solution,
// such as per-test results written by workers or the cause of a failed
// dispatch.
type Details map[string]interface{}

// Solution is a stored submission against a problem, owned by an entry.
type Solution struct {
	ID      string  `json:"id"`
	Owner   string  `json:"owner"`   // owning entry
	Problem string  `json:"problem"` // referenced problem id
	Creator string  `json:"creator"` // submitting user
	Status  Status  `json:"status"`
	Score   int     `json:"score"`
	Details Details `json:"details,omitempty"`

	// DataKey locates the submission payload in object storage.
	DataKey string `json:"data_key"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// MarkWaitingJudge moves the solution into the waiting state for a fresh
// dispatch, clearing any previous outcome.
func (s *Solution) MarkWaitingJudge() {
	s.Status = StatusWaitingJudge
	s.Score = 0
	s.Details = nil
}

// MarkJudgementFailed records a failed dispatch. The cause ends up in
// details so callers can read it back from the solution itself.
func (s *Solution) MarkJudgementFailed(cause string) {
	s.Status = StatusJudgementFailed
	s.Score = 0
	s.Details = Details{"error": cause}
}
