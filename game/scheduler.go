// Package game implements the round state machine: it owns the held keys and
// the active round, and drives the session through rewards and penalties
package game

import (
	"fmt"
	"time"

	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/parameter"
	"github.com/lixenwraith/twister/session"
)

// Config tunes the round rules
type Config struct {
	Pool             []keyboard.Key
	TimeLimit        time.Duration
	ReleaseThreshold int
	ReleaseWindow    int
	WeightFactor     float64

	// WinOnFullHold ends the game in a win when a press round is due but every
	// pool key is already held; otherwise that round turns into a release
	WinOnFullHold bool
}

// DefaultConfig returns the standard rules
func DefaultConfig() Config {
	return Config{
		Pool:             keyboard.DefaultPool(),
		TimeLimit:        parameter.RoundTimeLimit,
		ReleaseThreshold: parameter.ReleaseThreshold,
		ReleaseWindow:    parameter.ReleaseWindow,
		WeightFactor:     parameter.DistanceWeight,
		WinOnFullHold:    true,
	}
}

// withDefaults fills zero fields
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Pool) == 0 {
		c.Pool = d.Pool
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = d.TimeLimit
	}
	if c.ReleaseThreshold <= 0 {
		c.ReleaseThreshold = d.ReleaseThreshold
	}
	if c.ReleaseWindow <= 0 {
		c.ReleaseWindow = d.ReleaseWindow
	}
	if c.WeightFactor < 0 {
		c.WeightFactor = d.WeightFactor
	}
	return c
}

// Scheduler is the phase state machine
// Single writer: every method must be called from the game goroutine
type Scheduler struct {
	cfg      Config
	session  *session.Session
	rng      keyboard.Rand
	selector *keyboard.Selector
	inPool   map[keyboard.Key]bool

	held   HeldSet
	round  Round
	active bool

	lastPenalty time.Time

	// Effects of the transition in progress
	effects []event.GameEvent
}

// NewScheduler wires the state machine to a session and the shared random source
func NewScheduler(cfg Config, sess *session.Session, rng keyboard.Rand) *Scheduler {
	cfg = cfg.withDefaults()
	inPool := make(map[keyboard.Key]bool, len(cfg.Pool))
	for _, k := range cfg.Pool {
		inPool[k] = true
	}
	return &Scheduler{
		cfg:      cfg,
		session:  sess,
		rng:      rng,
		selector: &keyboard.Selector{Factor: cfg.WeightFactor, Rand: rng},
		inPool:   inPool,
	}
}

// State returns the current state machine position
func (s *Scheduler) State() State {
	switch s.session.State() {
	case session.StateGameOver:
		return StateGameOver
	case session.StateWin:
		return StateWin
	case session.StatePlaying:
		if s.round.Phase == PhaseReleasing {
			return StateReleasing
		}
		return StatePressing
	}
	return StateIdle
}

// Session exposes the session read-only to observers
func (s *Scheduler) Session() *session.Session { return s.session }

// Config returns the effective rules
func (s *Scheduler) Config() Config { return s.cfg }

// Round returns the active round, false when none
func (s *Scheduler) Round() (Round, bool) { return s.round, s.active }

// Held returns a copy of the held keys in press order
func (s *Scheduler) Held() []keyboard.Key { return s.held.Copy() }

// HandleKey applies one input event and returns the effects it produced
// Events while terminal, and events for keys outside the pool while playing, are ignored
func (s *Scheduler) HandleKey(now time.Time, ev KeyEvent) []event.GameEvent {
	switch s.State() {
	case StateIdle:
		if ev.Action == KeyDown {
			s.start(now)
		}
	case StatePressing:
		if s.inPool[ev.Key] {
			s.onPressing(now, ev)
		}
	case StateReleasing:
		if s.inPool[ev.Key] {
			s.onReleasing(now, ev)
		}
	}
	return s.flush()
}

// HandleToggle resolves a press from a frontend that cannot report releases
// A press of a held key counts as its release, any other press as a key-down
func (s *Scheduler) HandleToggle(now time.Time, k keyboard.Key) []event.GameEvent {
	action := KeyDown
	if k != keyboard.None && s.held.Has(k) {
		action = KeyUp
	}
	return s.HandleKey(now, KeyEvent{Action: action, Key: k})
}

// Tick evaluates the round deadline against now
func (s *Scheduler) Tick(now time.Time) []event.GameEvent {
	st := s.State()
	if st != StatePressing && st != StateReleasing {
		return nil
	}
	if s.active && s.round.Expired(now) {
		s.penalize(now, s.round.Target, session.ReasonTimeout, s.held.Len() > 0)
	}
	return s.flush()
}

// Reset abandons the current game and returns to idle
// Round and held keys are cleared before returning so no stale deadline survives
func (s *Scheduler) Reset(now time.Time) []event.GameEvent {
	s.session.Reset()
	s.clearRound()
	s.held.Clear()
	s.lastPenalty = time.Time{}
	s.emit(event.GameEvent{Type: event.EventReset, At: now})
	return s.flush()
}

// Snapshot returns the renderer view at now
func (s *Scheduler) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		State:       s.State(),
		Held:        s.held.Copy(),
		TimeLimit:   s.cfg.TimeLimit,
		Score:       s.session.Score(),
		Lives:       s.session.Lives(),
		MaxLives:    s.session.MaxLives(),
		Reason:      s.session.Reason(),
		SessionID:   s.session.ID(),
		Now:         now,
		Pool:        s.cfg.Pool,
		LastPenalty: s.lastPenalty,
	}
	if s.active {
		snap.Phase = s.round.Phase
		snap.Target = s.round.Target
		snap.Remaining = s.round.Remaining(now)
	}
	return snap
}

// === Transitions ===

func (s *Scheduler) start(now time.Time) {
	s.session.Start()
	s.held.Clear()
	s.lastPenalty = time.Time{}
	s.emit(event.GameEvent{
		Type:  event.EventSessionStarted,
		At:    now,
		Lives: s.session.Lives(),
	})
	s.startRound(now, false)
}

func (s *Scheduler) onPressing(now time.Time, ev KeyEvent) {
	switch ev.Action {
	case KeyDown:
		if ev.Key != s.round.Target {
			return
		}
		s.held.Add(ev.Key)
		s.reward(now, ev.Key)
		s.startRound(now, false)

	case KeyUp:
		if !s.held.Remove(ev.Key) {
			return
		}
		s.penalize(now, ev.Key, session.ReasonSlip, false)
	}
}

func (s *Scheduler) onReleasing(now time.Time, ev KeyEvent) {
	if ev.Action != KeyUp {
		return
	}
	if !s.held.Remove(ev.Key) {
		return
	}
	if ev.Key == s.round.Target {
		s.reward(now, ev.Key)
		s.startRound(now, false)
		return
	}
	// Released key is physically up regardless, so it leaves the held set above
	s.penalize(now, ev.Key, session.ReasonWrongRelease, false)
}

func (s *Scheduler) reward(now time.Time, k keyboard.Key) {
	s.session.ApplyReward()
	s.emit(event.GameEvent{
		Type:    event.EventReward,
		At:      now,
		Key:     k,
		Release: s.round.Phase == PhaseReleasing,
		Score:   s.session.Score(),
		Lives:   s.session.Lives(),
	})
}

// penalize costs a life and either ends the game or starts the next round
func (s *Scheduler) penalize(now time.Time, k keyboard.Key, reason session.Reason, forceRelease bool) {
	fatal := s.session.ApplyPenalty(reason)
	s.lastPenalty = now
	s.emit(event.GameEvent{
		Type:   event.EventPenalty,
		At:     now,
		Key:    k,
		Reason: reason,
		Score:  s.session.Score(),
		Lives:  s.session.Lives(),
	})
	if fatal {
		s.finish(now, session.StateGameOver)
		return
	}
	s.startRound(now, forceRelease)
}

// startRound chooses the next phase and target and restarts the countdown
func (s *Scheduler) startRound(now time.Time, forceRelease bool) {
	if (forceRelease || s.held.Len() >= s.cfg.ReleaseThreshold) && s.held.Len() > 0 {
		s.beginRelease(now)
		return
	}

	available := s.available()
	if len(available) == 0 {
		if s.cfg.WinOnFullHold {
			s.finish(now, session.StateWin)
			return
		}
		s.beginRelease(now)
		return
	}

	target, err := s.selector.Select(available, s.held.Keys())
	if err != nil {
		// available is non-empty and disjoint from held here
		panic(fmt.Sprintf("game: target selection: %v", err))
	}
	s.setRound(now, PhasePressing, target)
}

// beginRelease draws the target uniformly from the earliest-held keys
func (s *Scheduler) beginRelease(now time.Time) {
	candidates := s.held.Oldest(s.cfg.ReleaseWindow)
	target := candidates[s.rng.Intn(len(candidates))]
	s.setRound(now, PhaseReleasing, target)
}

func (s *Scheduler) setRound(now time.Time, phase Phase, target keyboard.Key) {
	s.round = Round{
		Phase:    phase,
		Target:   target,
		Started:  now,
		Deadline: now.Add(s.cfg.TimeLimit),
	}
	s.active = true
	s.emit(event.GameEvent{
		Type:    event.EventRoundStarted,
		At:      now,
		Key:     target,
		Release: phase == PhaseReleasing,
		Score:   s.session.Score(),
		Lives:   s.session.Lives(),
	})
}

// finish enters a terminal state; the session submits the score exactly once
func (s *Scheduler) finish(now time.Time, outcome session.State) {
	if !s.session.Finalize(outcome) {
		return
	}
	s.clearRound()
	s.held.Clear()

	typ := event.EventGameOver
	if outcome == session.StateWin {
		typ = event.EventWin
	}
	s.emit(event.GameEvent{
		Type:   typ,
		At:     now,
		Reason: s.session.Reason(),
		Score:  s.session.Score(),
		Lives:  s.session.Lives(),
	})
}

func (s *Scheduler) clearRound() {
	s.round = Round{}
	s.active = false
}

// available returns pool keys not currently held, in pool order
func (s *Scheduler) available() []keyboard.Key {
	out := make([]keyboard.Key, 0, len(s.cfg.Pool))
	for _, k := range s.cfg.Pool {
		if !s.held.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s *Scheduler) emit(ev event.GameEvent) {
	s.effects = append(s.effects, ev)
}

// flush hands the accumulated effects to the caller
func (s *Scheduler) flush() []event.GameEvent {
	out := s.effects
	s.effects = nil
	return out
}
