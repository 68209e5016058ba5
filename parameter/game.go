package parameter

import "time"

// Round and session rules
const (
	// KeyPool is the selectable alphabet in canonical order
	KeyPool = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// StartingLives is the penalty budget of a fresh session
	StartingLives = 3

	// MaxLives caps configured lives so the hearts line stays on one row
	MaxLives = 9

	// RoundTimeLimit is the fixed countdown of every round regardless of phase
	RoundTimeLimit = 2000 * time.Millisecond

	// MinRoundTimeLimit rejects configurations no human can play
	MinRoundTimeLimit = 250 * time.Millisecond

	// ReleaseThreshold forces a release round once this many keys are held
	ReleaseThreshold = 5

	// ReleaseWindow is how many of the earliest-held keys are release candidates
	ReleaseWindow = 3

	// DistanceWeight scales min distance to held keys into selection weight
	// Max weight ratio across the default layout is roughly 3:1
	DistanceWeight = 0.4

	// GameID identifies this game to the score service
	GameID = "twister"
)

// Player-facing messages
const (
	MessageIdle     = "Press ANY KEY to Start!"
	MessageWin      = "Hardware Limit Reached! You are a Finger Master!"
	MessageGameOver = "No lives left!"
)
