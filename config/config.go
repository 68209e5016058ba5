// Package config loads game settings from defaults, a TOML file, a .env file
// and TWISTER_* environment variables, in increasing priority
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lixenwraith/twister/game"
	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/parameter"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Backend names
const (
	BackendRaw   = "raw"
	BackendTcell = "tcell"
)

type GameConfig struct {
	Pool             string  `toml:"pool"`
	Lives            int     `toml:"lives"`
	TimeLimitMs      int     `toml:"time_limit_ms"`
	ReleaseThreshold int     `toml:"release_threshold"`
	ReleaseWindow    int     `toml:"release_window"`
	WeightFactor     float64 `toml:"weight_factor"`
	WinOnFullHold    bool    `toml:"win_on_full_hold"`
}

type EngineConfig struct {
	TickMs int `toml:"tick_ms"`
}

type DisplayConfig struct {
	Backend string `toml:"backend"`
	Color   string `toml:"color"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type ScoreConfig struct {
	Endpoint  string `toml:"endpoint"`
	TimeoutMs int    `toml:"timeout_ms"`
}

type SpectateConfig struct {
	Addr string `toml:"addr"`
}

// Config is the complete runtime configuration
type Config struct {
	Game     GameConfig     `toml:"game"`
	Engine   EngineConfig   `toml:"engine"`
	Display  DisplayConfig  `toml:"display"`
	Audio    AudioConfig    `toml:"audio"`
	Score    ScoreConfig    `toml:"score"`
	Spectate SpectateConfig `toml:"spectate"`
	Debug    bool           `toml:"debug"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Game: GameConfig{
			Pool:             parameter.KeyPool,
			Lives:            parameter.StartingLives,
			TimeLimitMs:      int(parameter.RoundTimeLimit / time.Millisecond),
			ReleaseThreshold: parameter.ReleaseThreshold,
			ReleaseWindow:    parameter.ReleaseWindow,
			WeightFactor:     parameter.DistanceWeight,
			WinOnFullHold:    true,
		},
		Engine: EngineConfig{
			TickMs: int(parameter.TickInterval / time.Millisecond),
		},
		Display: DisplayConfig{
			Backend: BackendRaw,
			Color:   "auto",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  parameter.DefaultVolume,
		},
		Score: ScoreConfig{
			TimeoutMs: int(parameter.ScoreTimeout / time.Millisecond),
		},
	}
}

// Load builds the configuration from every source and validates it
// A missing file at path is an error only when required is set; envFile may be absent
func Load(path string, required bool, envFile string) (Config, error) {
	cfg := Default()

	if err := cfg.decodeFile(path, required); err != nil {
		return cfg, err
	}

	dotenv := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			m, err := godotenv.Read(envFile)
			if err != nil {
				return cfg, fmt.Errorf("read %s: %w", envFile, err)
			}
			dotenv = m
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("[config] unknown key %q in %s", key.String(), path)
	}
	return nil
}

// applyEnv overlays TWISTER_* variables resolved through lookup
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(parameter.EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(parameter.EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, parameter.EnvPrefix, name, v))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := lookup(parameter.EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, parameter.EnvPrefix, name, v))
				return
			}
			*dst = f
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(parameter.EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, parameter.EnvPrefix, name, v))
				return
			}
			*dst = b
		}
	}

	str("POOL", &c.Game.Pool)
	num("LIVES", &c.Game.Lives)
	num("TIME_LIMIT_MS", &c.Game.TimeLimitMs)
	num("RELEASE_THRESHOLD", &c.Game.ReleaseThreshold)
	num("RELEASE_WINDOW", &c.Game.ReleaseWindow)
	float("WEIGHT_FACTOR", &c.Game.WeightFactor)
	flag("WIN_ON_FULL_HOLD", &c.Game.WinOnFullHold)
	num("TICK_MS", &c.Engine.TickMs)
	str("BACKEND", &c.Display.Backend)
	str("COLOR", &c.Display.Color)
	flag("AUDIO", &c.Audio.Enabled)
	float("VOLUME", &c.Audio.Volume)
	str("SCORE_URL", &c.Score.Endpoint)
	num("SCORE_TIMEOUT_MS", &c.Score.TimeoutMs)
	str("SPECTATE", &c.Spectate.Addr)
	flag("DEBUG", &c.Debug)

	return errors.Join(errs...)
}

// Validate checks every setting, reporting all problems at once
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if _, ok := keyboard.ParsePool(c.Game.Pool); !ok {
		bad("pool %q must be non-empty letters and digits without duplicates", c.Game.Pool)
	}
	if c.Game.Lives < 1 || c.Game.Lives > parameter.MaxLives {
		bad("lives %d outside 1..%d", c.Game.Lives, parameter.MaxLives)
	}
	if c.TimeLimit() < parameter.MinRoundTimeLimit {
		bad("time_limit_ms %d below %d", c.Game.TimeLimitMs, parameter.MinRoundTimeLimit.Milliseconds())
	}
	if c.Game.ReleaseThreshold < 1 {
		bad("release_threshold %d below 1", c.Game.ReleaseThreshold)
	}
	if c.Game.ReleaseWindow < 1 {
		bad("release_window %d below 1", c.Game.ReleaseWindow)
	}
	if c.Game.WeightFactor < 0 {
		bad("weight_factor %v negative", c.Game.WeightFactor)
	}
	if c.Engine.TickMs < 1 || c.TickInterval() > parameter.MaxTickInterval {
		bad("tick_ms %d outside 1..%d", c.Engine.TickMs, parameter.MaxTickInterval.Milliseconds())
	}
	switch c.Display.Backend {
	case BackendRaw, BackendTcell:
	default:
		bad("backend %q must be %s or %s", c.Display.Backend, BackendRaw, BackendTcell)
	}
	switch strings.ToLower(c.Display.Color) {
	case "", "auto", "256", "truecolor", "true", "24bit":
	default:
		bad("color %q must be auto, truecolor or 256", c.Display.Color)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		bad("volume %v outside 0..1", c.Audio.Volume)
	}
	if c.Score.TimeoutMs < 1 {
		bad("score timeout_ms %d below 1", c.Score.TimeoutMs)
	}

	return errors.Join(errs...)
}

// TimeLimit returns the round countdown
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.Game.TimeLimitMs) * time.Millisecond
}

// TickInterval returns the loop frame interval
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.TickMs) * time.Millisecond
}

// ScoreTimeout returns the per-request submission timeout
func (c Config) ScoreTimeout() time.Duration {
	return time.Duration(c.Score.TimeoutMs) * time.Millisecond
}

// Rules converts the game section for the scheduler; call after Validate
func (c Config) Rules() game.Config {
	pool, ok := keyboard.ParsePool(c.Game.Pool)
	if !ok {
		pool = keyboard.DefaultPool()
	}
	return game.Config{
		Pool:             pool,
		TimeLimit:        c.TimeLimit(),
		ReleaseThreshold: c.Game.ReleaseThreshold,
		ReleaseWindow:    c.Game.ReleaseWindow,
		WeightFactor:     c.Game.WeightFactor,
		WinOnFullHold:    c.Game.WinOnFullHold,
	}
}
