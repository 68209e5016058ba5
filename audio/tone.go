package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/twister/parameter"
)

// Waveform selects the oscillator shape
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSaw
)

// Tone is one enveloped note, optionally sweeping from Freq to EndFreq
type Tone struct {
	Freq     float64
	EndFreq  float64 // Zero keeps Freq constant
	Duration time.Duration
	Wave     Waveform
	Gain     float64
}

// Streamer renders the tone at sample rate sr
func (t Tone) Streamer(sr beep.SampleRate) beep.Streamer {
	total := sr.N(t.Duration)
	attack := sr.N(parameter.CueAttack)
	release := sr.N(parameter.CueRelease)
	if attack+release > total {
		attack, release = total/4, total/2
	}
	end := t.EndFreq
	if end == 0 {
		end = t.Freq
	}
	return &toneStreamer{
		tone:    t,
		endFreq: end,
		sr:      float64(sr),
		total:   total,
		attack:  attack,
		release: release,
	}
}

// toneStreamer is a phase-continuous oscillator with a linear envelope
type toneStreamer struct {
	tone    Tone
	endFreq float64
	sr      float64
	total   int
	attack  int
	release int

	pos   int
	phase float64
}

func (s *toneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.pos >= s.total {
			return i, true
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.tone.Freq + (s.endFreq-s.tone.Freq)*progress

		v := s.tone.Gain * wave(s.tone.Wave, s.phase) * s.envelope()
		samples[i][0] = v
		samples[i][1] = v

		s.phase += freq / s.sr
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
		s.pos++
	}
	return len(samples), true
}

func (s *toneStreamer) Err() error { return nil }

func (s *toneStreamer) envelope() float64 {
	if s.attack > 0 && s.pos < s.attack {
		return float64(s.pos) / float64(s.attack)
	}
	if s.release > 0 && s.pos >= s.total-s.release {
		return float64(s.total-s.pos) / float64(s.release)
	}
	return 1
}

func wave(w Waveform, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	}
	return math.Sin(2 * math.Pi * phase)
}
