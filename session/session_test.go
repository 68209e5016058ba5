package session

import (
	"testing"

	"github.com/lixenwraith/twister/parameter"
)

type recordingSubmitter struct {
	scores []Score
}

func (r *recordingSubmitter) Submit(s Score) {
	r.scores = append(r.scores, s)
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New(0, nil)
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if s.Lives() != parameter.StartingLives {
		t.Errorf("lives = %d, want %d", s.Lives(), parameter.StartingLives)
	}
	if s.ID() != "" {
		t.Errorf("idle session has id %q", s.ID())
	}
}

func TestStartResetsCounters(t *testing.T) {
	s := New(3, nil)
	s.Start()
	s.ApplyReward()
	s.ApplyPenalty(ReasonSlip)
	first := s.ID()

	s.Start()
	if s.Score() != 0 || s.Lives() != 3 || s.Reason() != ReasonNone {
		t.Errorf("after restart: score=%d lives=%d reason=%v", s.Score(), s.Lives(), s.Reason())
	}
	if s.ID() == "" || s.ID() == first {
		t.Errorf("restart must assign a new id, got %q (previous %q)", s.ID(), first)
	}
}

func TestPenaltyIgnoredUnlessPlaying(t *testing.T) {
	s := New(3, nil)
	if s.ApplyPenalty(ReasonTimeout) {
		t.Error("idle penalty reported fatal")
	}
	if s.Lives() != 3 {
		t.Errorf("idle penalty changed lives to %d", s.Lives())
	}
	s.ApplyReward()
	if s.Score() != 0 {
		t.Errorf("idle reward changed score to %d", s.Score())
	}
}

func TestLivesNeverBelowZero(t *testing.T) {
	s := New(2, nil)
	s.Start()

	if s.ApplyPenalty(ReasonSlip) {
		t.Fatal("first of two lives reported fatal")
	}
	if !s.ApplyPenalty(ReasonTimeout) {
		t.Fatal("last life not reported fatal")
	}
	if s.Reason() != ReasonTimeout {
		t.Errorf("fatal reason = %v, want timeout", s.Reason())
	}
	if s.ApplyPenalty(ReasonSlip) {
		t.Error("penalty at zero lives reported fatal again")
	}
	if s.Lives() != 0 {
		t.Errorf("lives = %d, want 0", s.Lives())
	}
}

func TestFinalizeSubmitsOnce(t *testing.T) {
	sub := &recordingSubmitter{}
	s := New(1, sub)
	s.Start()
	s.ApplyReward()
	s.ApplyReward()
	s.ApplyPenalty(ReasonTimeout)

	if !s.Finalize(StateGameOver) {
		t.Fatal("Finalize from playing returned false")
	}
	if s.Finalize(StateGameOver) {
		t.Error("second Finalize returned true")
	}
	if s.Finalize(StateWin) {
		t.Error("Finalize after terminal changed outcome")
	}

	if len(sub.scores) != 1 {
		t.Fatalf("submissions = %d, want 1", len(sub.scores))
	}
	got := sub.scores[0]
	if got.GameID != "twister" || got.Value != 2 || got.Outcome != StateGameOver {
		t.Errorf("submission = %+v", got)
	}
	if got.SessionID != s.ID() {
		t.Errorf("submission session id = %q, want %q", got.SessionID, s.ID())
	}
	if s.State() != StateGameOver {
		t.Errorf("state = %v, want game_over", s.State())
	}

	// Frozen after terminal
	s.ApplyReward()
	if s.Score() != 2 {
		t.Errorf("score changed after finalize: %d", s.Score())
	}
}

func TestFinalizeRejectsNonTerminalOutcome(t *testing.T) {
	s := New(3, nil)
	s.Start()
	if s.Finalize(StatePlaying) {
		t.Error("Finalize accepted non-terminal outcome")
	}
	if s.State() != StatePlaying {
		t.Errorf("state = %v, want playing", s.State())
	}
}

func TestResetAllowsNewSubmission(t *testing.T) {
	sub := &recordingSubmitter{}
	s := New(1, sub)
	s.Start()
	s.Finalize(StateWin)
	s.Reset()
	if s.State() != StateIdle {
		t.Fatalf("state after reset = %v", s.State())
	}
	s.Start()
	s.Finalize(StateGameOver)
	if len(sub.scores) != 2 {
		t.Errorf("submissions across two games = %d, want 2", len(sub.scores))
	}
}

func TestReasonText(t *testing.T) {
	tests := map[Reason]string{
		ReasonNone:         "",
		ReasonSlip:         "Don't let go!",
		ReasonWrongRelease: "Wrong key released!",
		ReasonTimeout:      "Time Out!",
	}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("Reason(%d).String() = %q, want %q", r, got, want)
		}
	}
}
