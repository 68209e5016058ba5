// Package audio plays short synthesized cues for game events
package audio

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/parameter"
)

// CuePlayer maps game events to cues on the speaker
// Every method is a safe no-op until Initialize succeeds
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	sampleRate  beep.SampleRate
	volume      float64
	muted       bool
	initialized bool

	// Speaker lock, replaced in tests
	lock   func()
	unlock func()
}

// NewCuePlayer creates a player at volume in [0,1]
func NewCuePlayer(volume float64) *CuePlayer {
	return &CuePlayer{
		mixer:      &beep.Mixer{},
		sampleRate: beep.SampleRate(parameter.AudioSampleRate),
		volume:     clampVolume(volume),
		lock:       speaker.Lock,
		unlock:     speaker.Unlock,
	}
}

// Initialize opens the audio device
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(p.sampleRate, p.sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences pending cues
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	p.lock()
	p.mixer.Clear()
	p.unlock()
	p.initialized = false
}

// SetMuted toggles output without closing the device
func (p *CuePlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Play queues a cue on the mixer
func (p *CuePlayer) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted || p.volume <= 0 {
		return
	}

	s := p.withVolume(c.Streamer(p.sampleRate))
	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// Pending returns the number of cues still playing
func (p *CuePlayer) Pending() int {
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// HandleEvent implements event.Handler
func (p *CuePlayer) HandleEvent(ev event.GameEvent) {
	c, ok := CueFor(ev)
	if !ok {
		return
	}
	p.Play(c)
}

// EventTypes implements event.Handler
func (p *CuePlayer) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventRoundStarted,
		event.EventReward,
		event.EventPenalty,
		event.EventGameOver,
		event.EventWin,
	}
}

// CueFor selects the cue announcing ev
func CueFor(ev event.GameEvent) (Cue, bool) {
	switch ev.Type {
	case event.EventRoundStarted:
		if ev.Release {
			return CueRelease, true
		}
		return CuePress, true
	case event.EventReward:
		return CueReward, true
	case event.EventPenalty:
		return CuePenalty, true
	case event.EventGameOver:
		return CueGameOver, true
	case event.EventWin:
		return CueWin, true
	}
	return 0, false
}

// withVolume wraps s in a log-scale gain; math.Log2(0) is -Inf so zero is silent
func (p *CuePlayer) withVolume(s beep.Streamer) beep.Streamer {
	if p.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(p.volume)}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		log.Printf("[audio] volume %.2f clamped to 0", v)
		return 0
	}
	if v > 1 {
		log.Printf("[audio] volume %.2f clamped to 1", v)
		return 1
	}
	return v
}
