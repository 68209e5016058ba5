package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/session"
	"github.com/lixenwraith/twister/vmath"
)

type manualTicker struct {
	c chan time.Time
}

func (t *manualTicker) Chan() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()                  {}

// frameSink forwards every frame so the test can step in lockstep with the loop
type frameSink struct {
	frames chan game.Snapshot

	mu     sync.Mutex
	width  int
	height int
}

func (s *frameSink) Frame(snap game.Snapshot) { s.frames <- snap }

func (s *frameSink) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = w, h
}

type recorder struct {
	mu  sync.Mutex
	got []event.EventType
}

func (r *recorder) HandleEvent(ev event.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev.Type)
}

func (r *recorder) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSessionStarted, event.EventRoundStarted, event.EventReward,
		event.EventPenalty, event.EventGameOver, event.EventWin, event.EventReset,
	}
}

func (r *recorder) types() []event.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.EventType(nil), r.got...)
}

type nopSubmitter struct{}

func (nopSubmitter) Submit(session.Score) {}

type harness struct {
	clock  *MockTimeProvider
	ticker *manualTicker
	sink   *frameSink
	rec    *recorder
	input  chan Input
	done   chan error
	cancel context.CancelFunc
}

func startLoop(t *testing.T, lives int) *harness {
	t.Helper()
	h := &harness{
		clock:  NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		ticker: &manualTicker{c: make(chan time.Time)},
		sink:   &frameSink{frames: make(chan game.Snapshot, 1)},
		rec:    &recorder{},
		input:  make(chan Input),
		done:   make(chan error, 1),
	}

	cfg := game.DefaultConfig()
	cfg.Pool = keyboard.DefaultPool()
	sched := game.NewScheduler(cfg, session.New(lives, nopSubmitter{}), vmath.NewFastRand(7))

	router := event.NewRouter()
	router.Register(h.rec)

	loop := NewLoop(sched, h.clock, router, 0)
	loop.SetTickerFactory(func(time.Duration) Ticker { return h.ticker })
	loop.AddSink(h.sink)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- loop.Run(ctx, h.input) }()

	h.frame(t) // initial frame
	t.Cleanup(cancel)
	return h
}

func (h *harness) frame(t *testing.T) game.Snapshot {
	t.Helper()
	select {
	case snap := <-h.sink.frames:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return game.Snapshot{}
}

func (h *harness) send(t *testing.T, in Input) game.Snapshot {
	t.Helper()
	h.input <- in
	return h.frame(t)
}

func (h *harness) tick(t *testing.T) game.Snapshot {
	t.Helper()
	h.ticker.c <- time.Time{}
	return h.frame(t)
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit")
	}
	return nil
}

func keyDown(k keyboard.Key) Input {
	return Input{Kind: InputKey, Key: game.KeyEvent{Action: game.KeyDown, Key: k}}
}

func TestLoopStartsSessionOnKey(t *testing.T) {
	h := startLoop(t, 3)

	snap := h.send(t, keyDown('Q'))
	if snap.State != game.StatePressing {
		t.Fatalf("state = %v, want pressing", snap.State)
	}
	if snap.Remaining != 2*time.Second {
		t.Errorf("remaining = %v, want 2s", snap.Remaining)
	}

	got := h.rec.types()
	if len(got) != 2 || got[0] != event.EventSessionStarted || got[1] != event.EventRoundStarted {
		t.Errorf("dispatched = %v", got)
	}
}

func TestLoopTickUsesClock(t *testing.T) {
	h := startLoop(t, 3)
	h.send(t, keyDown('Q'))

	h.clock.Advance(500 * time.Millisecond)
	snap := h.tick(t)
	if snap.Remaining != 1500*time.Millisecond {
		t.Errorf("remaining = %v, want 1.5s", snap.Remaining)
	}

	h.clock.Advance(1500 * time.Millisecond)
	snap = h.tick(t)
	if snap.Lives != 2 || snap.Reason != session.ReasonTimeout {
		t.Errorf("after deadline: lives=%d reason=%v", snap.Lives, snap.Reason)
	}
	if snap.Remaining != 2*time.Second {
		t.Errorf("next round remaining = %v, want 2s", snap.Remaining)
	}
}

func TestLoopRestartOnlyAfterTerminal(t *testing.T) {
	h := startLoop(t, 1)
	h.send(t, keyDown('Q'))

	// Restart while playing does nothing
	if snap := h.send(t, Input{Kind: InputRestart}); snap.State != game.StatePressing {
		t.Fatalf("restart while playing changed state to %v", snap.State)
	}

	h.clock.Advance(2 * time.Second)
	if snap := h.tick(t); snap.State != game.StateGameOver {
		t.Fatalf("state = %v, want game over", snap.State)
	}

	// Terminal: ticks still render but the scheduler stays frozen
	h.clock.Advance(10 * time.Second)
	if snap := h.tick(t); snap.State != game.StateGameOver || snap.Lives != 0 {
		t.Fatalf("terminal tick changed state: %+v", snap)
	}

	if snap := h.send(t, Input{Kind: InputRestart}); snap.State != game.StateIdle {
		t.Fatalf("state after restart = %v, want idle", snap.State)
	}
	if snap := h.send(t, keyDown('A')); snap.State != game.StatePressing || snap.Lives != 1 {
		t.Errorf("new game: %+v", snap)
	}
}

func TestLoopResizeReachesSinks(t *testing.T) {
	h := startLoop(t, 3)
	h.send(t, Input{Kind: InputResize, Width: 120, Height: 40})

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	if h.sink.width != 120 || h.sink.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", h.sink.width, h.sink.height)
	}
}

func TestLoopExit(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		h := startLoop(t, 3)
		h.input <- Input{Kind: InputQuit}
		if err := h.wait(t); err != nil {
			t.Errorf("quit returned %v", err)
		}
	})

	t.Run("closed input", func(t *testing.T) {
		h := startLoop(t, 3)
		close(h.input)
		if err := h.wait(t); err != nil {
			t.Errorf("closed input returned %v", err)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		h := startLoop(t, 3)
		h.cancel()
		if err := h.wait(t); !errors.Is(err, context.Canceled) {
			t.Errorf("cancel returned %v, want context.Canceled", err)
		}
	})
}

func TestNewLoopClampsInterval(t *testing.T) {
	sched := game.NewScheduler(game.DefaultConfig(), session.New(3, nopSubmitter{}), vmath.NewFastRand(1))
	router := event.NewRouter()

	if got := NewLoop(sched, NewTimeProvider(), router, 0).Interval(); got != 16*time.Millisecond {
		t.Errorf("default interval = %v", got)
	}
	if got := NewLoop(sched, NewTimeProvider(), router, time.Second).Interval(); got != 100*time.Millisecond {
		t.Errorf("clamped interval = %v", got)
	}
}

func TestLoopToggleInput(t *testing.T) {
	h := startLoop(t, 3)
	snap := h.send(t, Input{Kind: InputToggle, Key: game.KeyEvent{Key: 'Q'}})
	if snap.State != game.StatePressing {
		t.Fatalf("state = %v, want pressing", snap.State)
	}

	target := snap.Target
	snap = h.send(t, Input{Kind: InputToggle, Key: game.KeyEvent{Key: target}})
	if len(snap.Held) != 1 || snap.Held[0] != target || snap.Score != 1 {
		t.Errorf("after toggle press: held=%v score=%d", snap.Held, snap.Score)
	}
}
