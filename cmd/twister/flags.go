package main

import (
	"flag"
	"time"

	"github.com/lixenwraith/twister/config"
	"github.com/lixenwraith/twister/parameter"
)

// options holds command-line overrides; only flags given explicitly are applied
type options struct {
	configPath string
	debug      bool
	color      string
	backend    string
	seed       uint64
	mute       bool
	scoreURL   string
	spectate   string
	lives      int
	timeLimit  time.Duration

	set map[string]bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("twister", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", parameter.ConfigFileName, "Path to TOML config file")
	fs.BoolVar(&o.debug, "debug", false, "Write debug log to "+parameter.LogDir+"/"+parameter.LogFileName)
	fs.StringVar(&o.color, "color", "auto", "Color mode: auto, truecolor, 256")
	fs.StringVar(&o.backend, "backend", config.BackendRaw, "Display backend: raw, tcell")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed, 0 seeds from the clock")
	fs.BoolVar(&o.mute, "mute", false, "Disable audio cues")
	fs.StringVar(&o.scoreURL, "score-url", "", "Endpoint receiving final scores")
	fs.StringVar(&o.spectate, "spectate", "", "Serve live snapshots to websocket viewers on addr (e.g. :8090)")
	fs.IntVar(&o.lives, "lives", parameter.StartingLives, "Lives per game")
	fs.DurationVar(&o.timeLimit, "time-limit", parameter.RoundTimeLimit, "Countdown per round")
	return fs
}

// parseFlags parses args and records which flags were given
func parseFlags(args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := newFlagSet(o)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply overlays explicit flags onto cfg
func (o *options) apply(cfg *config.Config) {
	if o.set["debug"] {
		cfg.Debug = o.debug
	}
	if o.set["color"] {
		cfg.Display.Color = o.color
	}
	if o.set["backend"] {
		cfg.Display.Backend = o.backend
	}
	if o.set["mute"] {
		cfg.Audio.Enabled = !o.mute
	}
	if o.set["score-url"] {
		cfg.Score.Endpoint = o.scoreURL
	}
	if o.set["spectate"] {
		cfg.Spectate.Addr = o.spectate
	}
	if o.set["lives"] {
		cfg.Game.Lives = o.lives
	}
	if o.set["time-limit"] {
		cfg.Game.TimeLimitMs = int(o.timeLimit / time.Millisecond)
	}
}

// loadConfig resolves the final configuration: file, .env, environment, then flags
func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath, o.set["config"], parameter.EnvFileName)
	if err != nil {
		return cfg, err
	}
	o.apply(&cfg)
	return cfg, cfg.Validate()
}
