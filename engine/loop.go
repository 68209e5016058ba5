// Package engine owns the game goroutine: it serializes input and ticks into
// the round scheduler and hands effects and frames to observers
package engine

import (
	"context"
	"time"

	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/parameter"
)

// InputKind classifies loop input
type InputKind uint8

const (
	InputKey InputKind = iota
	InputToggle // Key press from a frontend without release events
	InputRestart
	InputQuit
	InputResize
)

// Input is one item on the loop input channel
type Input struct {
	Kind   InputKind
	Key    game.KeyEvent
	Width  int
	Height int
}

// FrameSink receives a snapshot after every processed input and tick
type FrameSink interface {
	Frame(snap game.Snapshot)
}

// Resizer is implemented by sinks that track the screen size
type Resizer interface {
	Resize(width, height int)
}

// Ticker is the periodic wakeup source of the loop
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realTicker struct {
	*time.Ticker
}

func (t realTicker) Chan() <-chan time.Time { return t.C }

// NewRealTicker wraps time.NewTicker
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

// Loop is the single writer of scheduler state
//   - Clock sampled once per iteration, the same instant feeds transition and frame
//   - Effects dispatched through the router after each transition completes
//   - Scheduler ticks stop once the session is terminal; frames keep flowing
type Loop struct {
	sched     *game.Scheduler
	clock     Clock
	router    *event.Router
	sinks     []FrameSink
	interval  time.Duration
	newTicker func(time.Duration) Ticker
}

// NewLoop creates a loop ticking at interval, parameter.TickInterval when zero
func NewLoop(sched *game.Scheduler, clock Clock, router *event.Router, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = parameter.TickInterval
	}
	if interval > parameter.MaxTickInterval {
		interval = parameter.MaxTickInterval
	}
	return &Loop{
		sched:     sched,
		clock:     clock,
		router:    router,
		interval:  interval,
		newTicker: NewRealTicker,
	}
}

// AddSink registers a frame observer, must be called before Run
func (l *Loop) AddSink(s FrameSink) {
	l.sinks = append(l.sinks, s)
}

// SetTickerFactory replaces the ticker source, must be called before Run
func (l *Loop) SetTickerFactory(fn func(time.Duration) Ticker) {
	l.newTicker = fn
}

// Interval returns the effective tick interval
func (l *Loop) Interval() time.Duration { return l.interval }

// Run processes input and ticks until quit, input close or ctx cancellation
// Returns nil on quit or closed input, ctx.Err() on cancellation
func (l *Loop) Run(ctx context.Context, input <-chan Input) error {
	ticker := l.newTicker(l.interval)
	defer ticker.Stop()

	l.frame(l.clock.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case in, ok := <-input:
			if !ok {
				return nil
			}
			now := l.clock.Now()
			if !l.handle(now, in) {
				return nil
			}
			l.frame(now)

		case <-ticker.Chan():
			now := l.clock.Now()
			if !l.sched.State().Terminal() {
				l.router.Dispatch(l.sched.Tick(now))
			}
			l.frame(now)
		}
	}
}

// handle applies one input, false on quit
func (l *Loop) handle(now time.Time, in Input) bool {
	switch in.Kind {
	case InputKey:
		l.router.Dispatch(l.sched.HandleKey(now, in.Key))

	case InputToggle:
		l.router.Dispatch(l.sched.HandleToggle(now, in.Key.Key))

	case InputRestart:
		// Restart only leaves a finished game; a running one is not abandoned
		if l.sched.State().Terminal() {
			l.router.Dispatch(l.sched.Reset(now))
		}

	case InputResize:
		for _, s := range l.sinks {
			if r, ok := s.(Resizer); ok {
				r.Resize(in.Width, in.Height)
			}
		}

	case InputQuit:
		return false
	}
	return true
}

func (l *Loop) frame(now time.Time) {
	if len(l.sinks) == 0 {
		return
	}
	snap := l.sched.Snapshot(now)
	for _, s := range l.sinks {
		s.Frame(snap)
	}
}
