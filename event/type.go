package event

import (
	"time"

	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/session"
)

// EventType represents the type of game event
type EventType int

const (
	// EventSessionStarted fires when the first qualifying input starts a game
	// Trigger: Scheduler idle transition | Payload: Score, Lives
	EventSessionStarted EventType = iota + 1

	// EventRoundStarted fires when a new target is chosen
	// Trigger: startRound | Payload: Key, Release
	EventRoundStarted

	// EventReward fires on a correct press or release
	// Trigger: Scheduler | Payload: Key, Score
	EventReward

	// EventPenalty fires when a life is lost
	// Trigger: Slip, wrong release, timeout | Payload: Key, Reason, Lives
	EventPenalty

	// EventGameOver fires once when lives reach zero
	// Trigger: fatal penalty | Payload: Reason, Score
	EventGameOver

	// EventWin fires once when the player holds the entire pool
	// Trigger: startRound | Payload: Score
	EventWin

	// EventReset fires on explicit restart back to idle
	// Trigger: Scheduler.Reset | Payload: nil
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventSessionStarted:
		return "session_started"
	case EventRoundStarted:
		return "round_started"
	case EventReward:
		return "reward"
	case EventPenalty:
		return "penalty"
	case EventGameOver:
		return "game_over"
	case EventWin:
		return "win"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// GameEvent is an effect produced by a scheduler transition
type GameEvent struct {
	Type EventType
	At   time.Time

	Key     keyboard.Key
	Release bool // Round demands a release
	Reason  session.Reason
	Score   int
	Lives   int
}
