// Package session tracks lives, score and the lifecycle of one play-through
package session

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/twister/parameter"
)

// State is the session lifecycle stage
type State uint8

const (
	StateIdle State = iota
	StatePlaying
	StateGameOver
	StateWin
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	case StateWin:
		return "win"
	}
	return "unknown"
}

// Terminal reports whether no further input is processed
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateWin
}

// Reason identifies why a life was lost
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonSlip
	ReasonWrongRelease
	ReasonTimeout
)

// String returns the player-facing text
func (r Reason) String() string {
	switch r {
	case ReasonSlip:
		return "Don't let go!"
	case ReasonWrongRelease:
		return "Wrong key released!"
	case ReasonTimeout:
		return "Time Out!"
	}
	return ""
}

// Score is a finished game handed to the submitter
type Score struct {
	GameID    string
	Value     int
	SessionID string
	Outcome   State
}

// Submitter receives the final score of each game
// Implementations must not block and must not report failures to the caller
type Submitter interface {
	Submit(score Score)
}

// Session is the lives/score aggregate of a single game
// Mutated only from the game goroutine
type Session struct {
	state     State
	score     int
	lives     int
	maxLives  int
	reason    Reason
	id        string
	submitted bool

	submitter Submitter
}

// New returns an idle session; nil submitter discards scores
func New(maxLives int, submitter Submitter) *Session {
	if maxLives <= 0 {
		maxLives = parameter.StartingLives
	}
	return &Session{
		state:     StateIdle,
		lives:     maxLives,
		maxLives:  maxLives,
		submitter: submitter,
	}
}

// Start begins a fresh game with full lives and zero score
func (s *Session) Start() {
	s.state = StatePlaying
	s.score = 0
	s.lives = s.maxLives
	s.reason = ReasonNone
	s.id = uuid.New().String()
	s.submitted = false
}

// Reset returns to idle so the next qualifying input starts a new game
func (s *Session) Reset() {
	s.state = StateIdle
	s.score = 0
	s.lives = s.maxLives
	s.reason = ReasonNone
	s.id = ""
	s.submitted = false
}

// ApplyPenalty removes one life and records the reason
// Returns true when this penalty emptied the lives budget; no-op unless playing
func (s *Session) ApplyPenalty(reason Reason) bool {
	if s.state != StatePlaying || s.lives == 0 {
		return false
	}
	s.lives--
	s.reason = reason
	return s.lives == 0
}

// ApplyReward adds one point; no-op unless playing
func (s *Session) ApplyReward() {
	if s.state != StatePlaying {
		return
	}
	s.score++
}

// Finalize freezes the score, enters the terminal outcome and submits once
// Returns false if the session was not playing
func (s *Session) Finalize(outcome State) bool {
	if s.state != StatePlaying || !outcome.Terminal() {
		return false
	}
	s.state = outcome
	if !s.submitted {
		s.submitted = true
		if s.submitter != nil {
			s.submitter.Submit(Score{
				GameID:    parameter.GameID,
				Value:     s.score,
				SessionID: s.id,
				Outcome:   outcome,
			})
		}
	}
	return true
}

// State returns the lifecycle stage
func (s *Session) State() State { return s.state }

// Score returns the current score
func (s *Session) Score() int { return s.score }

// Lives returns remaining lives
func (s *Session) Lives() int { return s.lives }

// MaxLives returns the lives budget of a fresh game
func (s *Session) MaxLives() int { return s.maxLives }

// Reason returns the most recent penalty reason
func (s *Session) Reason() Reason { return s.reason }

// ID returns the game's unique identifier, empty while idle
func (s *Session) ID() string { return s.id }
