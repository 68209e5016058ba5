package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 50 * time.Millisecond
	DefaultVolume       = 0.6
)

// Press cue
const (
	PressCueFreq     = 880.0
	PressCueDuration = 70 * time.Millisecond
)

// Release cue
const (
	ReleaseCueFreq     = 523.25
	ReleaseCueDuration = 70 * time.Millisecond
)

// Reward blip, two rising notes
const (
	RewardNote1Freq = 1318.5
	RewardNote2Freq = 1760.0
	RewardNoteLen   = 40 * time.Millisecond
)

// Penalty buzz
const (
	PenaltyBuzzFreq     = 110.0
	PenaltyBuzzDuration = 150 * time.Millisecond
)

// Game over sweep
const (
	GameOverStartFreq = 440.0
	GameOverEndFreq   = 110.0
	GameOverDuration  = 700 * time.Millisecond
)

// Win arpeggio (C major)
var WinArpeggio = []float64{523.25, 659.25, 783.99, 1046.5}

const WinNoteLen = 120 * time.Millisecond

// Envelope shaping shared by all cues
const (
	CueAttack  = 5 * time.Millisecond
	CueRelease = 30 * time.Millisecond
)
