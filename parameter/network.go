package parameter

import "time"

// Score submission and spectator hub
const (
	ScoreTimeout   = 5 * time.Second
	SpectatorQueue = 16
	SpectatorPing  = 25 * time.Second
	SpectatorWrite = 10 * time.Second
)
