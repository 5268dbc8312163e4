package model

import "fmt"

// Status is the judging state of a solution.
type Status string

const (
	// StatusCreated is the initial state of a stored solution.
	StatusCreated Status = "created"

	// StatusWaitingJudge marks a solution with a queued judging task.
	// It is transient: a worker moves it forward, or a failed dispatch
	// rolls it to StatusJudgementFailed.
	StatusWaitingJudge Status = "waiting_judge"

	// StatusJudging is set by a worker that picked up the task.
	StatusJudging Status = "judging"

	// StatusJudged is the stable state after successful judgement.
	StatusJudged Status = "judged"

	// StatusJudgementFailed is the stable state after a failed dispatch
	// or a failed judgement.
	StatusJudgementFailed Status = "judgement_failed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusWaitingJudge, StatusJudging, StatusJudged, StatusJudgementFailed:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// transitions lists the legal worker- and dispatcher-driven moves between
// statuses. Rejudge is not in the table: a new dispatch re-enters at
// StatusWaitingJudge from any state.
var transitions = map[Status][]Status{
	StatusCreated:      {StatusWaitingJudge},
	StatusWaitingJudge: {StatusJudging, StatusJudged, StatusJudgementFailed},
	StatusJudging:      {StatusJudged, StatusJudgementFailed},
}

// CanTransition reports whether a solution may move from one status to
// another without a new rejudge request.
func CanTransition(from, to Status) bool {
	if to == StatusWaitingJudge {
		// Re-entry via rejudge is always allowed.
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
