package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/twister/audio"
	"github.com/lixenwraith/twister/config"
	"github.com/lixenwraith/twister/engine"
	"github.com/lixenwraith/twister/event"
	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/input"
	"github.com/lixenwraith/twister/network"
	"github.com/lixenwraith/twister/parameter"
	"github.com/lixenwraith/twister/render"
	"github.com/lixenwraith/twister/session"
	"github.com/lixenwraith/twister/terminal"
	"github.com/lixenwraith/twister/vmath"
)

const latchedHint = "no key-up reports: press a key again to let go"

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()
	os.Exit(run(os.Args[1:]))
}

// crash restores the terminal and prints the panic; used for every goroutine root
func crash(r any) {
	terminal.EmergencyReset(os.Stdout)
	// \r\n for raw mode compatibility
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTWISTER CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "twister: %v\n", err)
		return 2
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	// Dependency Injection: goroutines started through engine.Go restore the terminal on panic
	engine.SetCrashHandler(crash)

	scores := network.NewScoreClient(cfg.Score.Endpoint, cfg.ScoreTimeout())
	defer scores.Wait()

	var rng *vmath.FastRand
	if opts.seed != 0 {
		rng = vmath.NewFastRand(opts.seed)
	} else {
		rng = vmath.NewClockRand()
	}

	sess := session.New(cfg.Game.Lives, scores)
	sched := game.NewScheduler(cfg.Rules(), sess, rng)
	router := event.NewRouter()
	router.Register(logHandler{})

	loop := engine.NewLoop(sched, engine.NewTimeProvider(), router, cfg.TickInterval())

	if cfg.Audio.Enabled {
		player := audio.NewCuePlayer(cfg.Audio.Volume)
		if err := player.Initialize(); err != nil {
			log.Printf("[audio] %v (continuing without audio)", err)
		} else {
			defer player.Cleanup()
			router.Register(player)
		}
	}

	if cfg.Spectate.Addr != "" {
		spectator := network.NewSpectator()
		if _, err := spectator.Start(cfg.Spectate.Addr); err != nil {
			log.Printf("[spectate] %v (continuing without spectators)", err)
		} else {
			defer spectator.Close()
			router.Register(spectator)
			loop.AddSink(spectator)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Display.Backend {
	case config.BackendTcell:
		err = runTcell(ctx, loop)
	default:
		err = runRaw(ctx, loop, terminal.ParseColorMode(cfg.Display.Color))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "twister: %v\n", err)
		return 1
	}
	return 0
}

// runRaw drives the game on the ANSI terminal with key release reporting
func runRaw(ctx context.Context, loop *engine.Loop, mode terminal.ColorMode) error {
	term := terminal.New(mode)
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer term.Fini()

	renderer := render.NewRenderer(render.NewCellSurface(term))
	adapter := input.NewAdapter()

	var latched atomic.Bool
	latched.Store(adapter.Latched())
	loop.AddSink(&hintSink{renderer: renderer, latched: &latched})
	loop.AddSink(renderer)

	inputs := make(chan engine.Input, parameter.InputQueueSize)
	// Input polling: the adapter is owned by this goroutine
	engine.Go(func() {
		for {
			ev := term.PollEvent()
			in, ok := adapter.Process(ev)
			latched.Store(adapter.Latched())
			if ok {
				select {
				case inputs <- in:
				case <-ctx.Done():
					return
				}
			}
			// Clean exit on terminal closure or error
			if ev.Type == terminal.EventClosed || ev.Type == terminal.EventError {
				return
			}
		}
	})

	return loop.Run(ctx, inputs)
}

// runTcell drives the game through tcell; keys are always latched
func runTcell(ctx context.Context, loop *engine.Loop) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	renderer := render.NewRenderer(render.NewTcellSurface(screen))
	renderer.SetHint(latchedHint)
	loop.AddSink(renderer)

	inputs := make(chan engine.Input, parameter.InputQueueSize)
	engine.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			in, ok := input.FromTcell(ev)
			if !ok {
				continue
			}
			select {
			case inputs <- in:
			case <-ctx.Done():
				return
			}
		}
	})

	return loop.Run(ctx, inputs)
}

// hintSink keeps the help line in sync with the adapter's latch mode
// Registered before the renderer so the hint applies to the same frame
type hintSink struct {
	renderer *render.Renderer
	latched  *atomic.Bool
	shown    bool
	primed   bool
}

func (h *hintSink) Frame(game.Snapshot) {
	l := h.latched.Load()
	if h.primed && l == h.shown {
		return
	}
	h.primed, h.shown = true, l
	if l {
		h.renderer.SetHint(latchedHint)
	} else {
		h.renderer.SetHint("")
	}
}

// logHandler traces the game flow into the debug log
type logHandler struct{}

func (logHandler) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventPenalty:
		log.Printf("[game] penalty key=%s reason=%q lives=%d", ev.Key, ev.Reason, ev.Lives)
	case event.EventGameOver, event.EventWin:
		log.Printf("[game] %s score=%d", ev.Type, ev.Score)
	default:
		log.Printf("[game] %s key=%s score=%d", ev.Type, ev.Key, ev.Score)
	}
}

func (logHandler) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSessionStarted,
		event.EventPenalty,
		event.EventGameOver,
		event.EventWin,
		event.EventReset,
	}
}
