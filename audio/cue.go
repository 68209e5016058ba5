package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/twister/parameter"
)

// Cue identifies a game sound
type Cue uint8

const (
	CuePress Cue = iota
	CueRelease
	CueReward
	CuePenalty
	CueGameOver
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CuePress:
		return "press"
	case CueRelease:
		return "release"
	case CueReward:
		return "reward"
	case CuePenalty:
		return "penalty"
	case CueGameOver:
		return "game_over"
	case CueWin:
		return "win"
	}
	return "unknown"
}

// Tones returns the notes of a cue in play order
func (c Cue) Tones() []Tone {
	switch c {
	case CuePress:
		return []Tone{{Freq: parameter.PressCueFreq, Duration: parameter.PressCueDuration, Gain: 0.35}}
	case CueRelease:
		return []Tone{{Freq: parameter.ReleaseCueFreq, Duration: parameter.ReleaseCueDuration, Gain: 0.35}}
	case CueReward:
		return []Tone{
			{Freq: parameter.RewardNote1Freq, Duration: parameter.RewardNoteLen, Gain: 0.25},
			{Freq: parameter.RewardNote2Freq, Duration: parameter.RewardNoteLen, Gain: 0.25},
		}
	case CuePenalty:
		return []Tone{{Freq: parameter.PenaltyBuzzFreq, Duration: parameter.PenaltyBuzzDuration, Wave: WaveSaw, Gain: 0.3}}
	case CueGameOver:
		return []Tone{{
			Freq:     parameter.GameOverStartFreq,
			EndFreq:  parameter.GameOverEndFreq,
			Duration: parameter.GameOverDuration,
			Wave:     WaveSquare,
			Gain:     0.2,
		}}
	case CueWin:
		tones := make([]Tone, len(parameter.WinArpeggio))
		for i, f := range parameter.WinArpeggio {
			tones[i] = Tone{Freq: f, Duration: parameter.WinNoteLen, Gain: 0.3}
		}
		return tones
	}
	return nil
}

// Streamer renders the cue as one sequential streamer
func (c Cue) Streamer(sr beep.SampleRate) beep.Streamer {
	tones := c.Tones()
	streams := make([]beep.Streamer, len(tones))
	for i, t := range tones {
		streams[i] = t.Streamer(sr)
	}
	return beep.Seq(streams...)
}
