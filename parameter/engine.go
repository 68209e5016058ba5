package parameter

import "time"

// Loop timing
const (
	// TickInterval is the nominal frame interval (~60 FPS)
	TickInterval = 16 * time.Millisecond

	// MaxTickInterval bounds configured intervals; coarser ticks make timeouts visibly late
	MaxTickInterval = 100 * time.Millisecond

	// InputQueueSize buffers events between the poller goroutine and the loop
	InputQueueSize = 256

	// FlashDuration is how long the background tints after a penalty
	FlashDuration = 100 * time.Millisecond
)

// Timer bar color thresholds as remaining fraction
const (
	TimerWarnFraction   = 0.6
	TimerDangerFraction = 0.3
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "twister.log"
	MaxLogSize  = 10 * 1024 * 1024
)

// Configuration sources
const (
	ConfigFileName = "twister.toml"
	EnvFileName    = ".env"
	EnvPrefix      = "TWISTER_"
)
