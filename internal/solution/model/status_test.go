package model

import "testing"

func TestParseStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     string
		want    Status
		wantErr bool
	}{
		{name: "created", raw: "created", want: StatusCreated},
		{name: "waiting", raw: "waiting_judge", want: StatusWaitingJudge},
		{name: "judging", raw: "judging", want: StatusJudging},
		{name: "judged", raw: "judged", want: StatusJudged},
		{name: "failed", raw: "judgement_failed", want: StatusJudgementFailed},
		{name: "unknown", raw: "done", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "created-to-waiting", from: StatusCreated, to: StatusWaitingJudge, want: true},
		{name: "waiting-to-judging", from: StatusWaitingJudge, to: StatusJudging, want: true},
		{name: "waiting-to-judged", from: StatusWaitingJudge, to: StatusJudged, want: true},
		{name: "waiting-to-failed", from: StatusWaitingJudge, to: StatusJudgementFailed, want: true},
		{name: "judging-to-judged", from: StatusJudging, to: StatusJudged, want: true},
		{name: "judging-to-failed", from: StatusJudging, to: StatusJudgementFailed, want: true},
		{name: "created-to-judged", from: StatusCreated, to: StatusJudged, want: false},
		{name: "judged-to-judging", from: StatusJudged, to: StatusJudging, want: false},
		{name: "failed-to-judged", from: StatusJudgementFailed, to: StatusJudged, want: false},
		// Rejudge re-enters waiting from any state.
		{name: "judged-to-waiting", from: StatusJudged, to: StatusWaitingJudge, want: true},
		{name: "failed-to-waiting", from: StatusJudgementFailed, to: StatusWaitingJudge, want: true},
		{name: "waiting-to-waiting", from: StatusWaitingJudge, to: StatusWaitingJudge, want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestMarkWaitingJudgeClearsOutcome(t *testing.T) {
	t.Parallel()
	solution := &Solution{
		Status:  StatusJudged,
		Score:   80,
		Details: Details{"tests": 12},
	}
	solution.MarkWaitingJudge()

	if solution.Status != StatusWaitingJudge {
		t.Fatalf("expected %s, got %s", StatusWaitingJudge, solution.Status)
	}
	if solution.Score != 0 {
		t.Fatalf("expected score 0, got %d", solution.Score)
	}
	if solution.Details != nil {
		t.Fatalf("expected details cleared, got %v", solution.Details)
	}
}

func TestMarkJudgementFailedRecordsCause(t *testing.T) {
	t.Parallel()
	solution := &Solution{Status: StatusWaitingJudge, Score: 80}
	solution.MarkJudgementFailed("broker down")

	if solution.Status != StatusJudgementFailed {
		t.Fatalf("expected %s, got %s", StatusJudgementFailed, solution.Status)
	}
	if solution.Score != 0 {
		t.Fatalf("expected score 0, got %d", solution.Score)
	}
	if cause, _ := solution.Details["error"].(string); cause != "broker down" {
		t.Fatalf("expected cause in details, got %v", solution.Details)
	}
}

func TestProblemDispatchable(t *testing.T) {
	t.Parallel()
	withChannel := &Problem{ID: "p1", Channel: "cpp"}
	if !withChannel.Dispatchable() {
		t.Fatal("expected problem with channel to be dispatchable")
	}
	withoutChannel := &Problem{ID: "p2"}
	if withoutChannel.Dispatchable() {
		t.Fatal("expected problem without channel to be undispatchable")
	}
}
