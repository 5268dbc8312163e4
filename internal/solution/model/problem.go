package model

import "time"

// Problem is the judging target a solution references. The dispatcher
// treats problems as read-only.
type Problem struct {
	ID    string `json:"id"`
	Owner string `json:"owner"` // owning entry

	// Channel routes judging tasks to a worker pool. A problem without a
	// channel cannot be dispatched.
	Channel string `json:"channel"`

	// DataKey locates the problem payload (tests, limits, checker) in
	// object storage.
	DataKey string `json:"data_key"`

	Updated time.Time `json:"updated"`
}

// Dispatchable reports whether the problem can receive judging tasks.
func (p *Problem) Dispatchable() bool {
	return p.Channel != ""
}
