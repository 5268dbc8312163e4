package model

import "time"

// DefaultTaskPriority is the fixed priority assigned to rejudge dispatches.
const DefaultTaskPriority = 1

// Task is one queued unit of judging work derived from a solution and its
// problem. The payload keys point at immutable snapshots: edits to the
// problem or solution after dispatch cannot affect a queued task.
type Task struct {
	ID string `json:"id"`

	// ObjectID references the solution this task judges. Workers that
	// cannot resolve it (the solution was deleted meanwhile) drop the
	// task as a no-op.
	ObjectID string `json:"object_id"`

	Owner    string `json:"owner"`   // owning entry
	Creator  string `json:"creator"` // user that requested the dispatch
	Channel  string `json:"channel"` // routing key, copied from the problem
	Priority int    `json:"priority"`

	// ProblemKey and SolutionKey locate the frozen payload snapshots in
	// object storage.
	ProblemKey  string `json:"problem_key"`
	SolutionKey string `json:"solution_key"`

	Created time.Time `json:"created"`
}
