package game

import (
	"time"

	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/session"
)

// Phase is what the active round demands
type Phase uint8

const (
	PhasePressing Phase = iota
	PhaseReleasing
)

func (p Phase) String() string {
	if p == PhaseReleasing {
		return "releasing"
	}
	return "pressing"
}

// State is the scheduler state machine position
type State uint8

const (
	StateIdle State = iota
	StatePressing
	StateReleasing
	StateGameOver
	StateWin
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePressing:
		return "pressing"
	case StateReleasing:
		return "releasing"
	case StateGameOver:
		return "game_over"
	case StateWin:
		return "win"
	}
	return "unknown"
}

// Terminal reports whether the scheduler ignores input until reset
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateWin
}

// Round is the single active challenge while playing
type Round struct {
	Phase    Phase
	Target   keyboard.Key
	Started  time.Time
	Deadline time.Time
}

// Remaining returns the time left before the deadline, never negative
func (r Round) Remaining(now time.Time) time.Duration {
	d := r.Deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the countdown has run out at now
func (r Round) Expired(now time.Time) bool {
	return !now.Before(r.Deadline)
}

// KeyAction distinguishes key-down from key-up
type KeyAction uint8

const (
	KeyDown KeyAction = iota
	KeyUp
)

func (a KeyAction) String() string {
	if a == KeyUp {
		return "up"
	}
	return "down"
}

// KeyEvent is a normalized input event
// Key is keyboard.None for keys outside the alphabet; those still count as a
// qualifying input to start a session
type KeyEvent struct {
	Action KeyAction
	Key    keyboard.Key
}

// Snapshot is the read-only renderer view of the game
type Snapshot struct {
	State       State
	Phase       Phase
	Target      keyboard.Key
	Held        []keyboard.Key
	Remaining   time.Duration
	TimeLimit   time.Duration
	Score       int
	Lives       int
	MaxLives    int
	Reason      session.Reason
	SessionID   string
	Now         time.Time
	Pool        []keyboard.Key
	LastPenalty time.Time
}

// RemainingMs is the countdown in whole milliseconds
func (s Snapshot) RemainingMs() int64 {
	return s.Remaining.Milliseconds()
}

// RemainingFraction is the countdown as a fraction of the round budget
func (s Snapshot) RemainingFraction() float64 {
	if s.TimeLimit <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(s.TimeLimit)
}
