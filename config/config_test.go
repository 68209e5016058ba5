package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/twister/keyboard"
	"github.com/lixenwraith/twister/parameter"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	rules := cfg.Rules()
	if len(rules.Pool) != len(parameter.KeyPool) {
		t.Errorf("pool size = %d, want %d", len(rules.Pool), len(parameter.KeyPool))
	}
	if rules.TimeLimit != parameter.RoundTimeLimit {
		t.Errorf("TimeLimit = %v, want %v", rules.TimeLimit, parameter.RoundTimeLimit)
	}
	if !rules.WinOnFullHold {
		t.Error("WinOnFullHold should default on")
	}
	if cfg.TickInterval() != parameter.TickInterval {
		t.Errorf("TickInterval = %v", cfg.TickInterval())
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.toml")

	if _, err := Load(missing, false, ""); err != nil {
		t.Errorf("optional missing file: %v", err)
	}
	if _, err := Load(missing, true, ""); err == nil {
		t.Error("required missing file loaded without error")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "twister.toml", `
debug = true

[game]
pool = "asdf"
lives = 5
time_limit_ms = 1500
win_on_full_hold = false

[display]
backend = "tcell"

[score]
endpoint = "http://localhost:9000/scores"
`)

	cfg, err := Load(path, true, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Debug {
		t.Error("debug not decoded")
	}
	if cfg.Game.Lives != 5 || cfg.TimeLimit() != 1500*time.Millisecond {
		t.Errorf("game = %+v", cfg.Game)
	}
	if cfg.Display.Backend != BackendTcell {
		t.Errorf("backend = %q", cfg.Display.Backend)
	}
	if cfg.Score.Endpoint != "http://localhost:9000/scores" {
		t.Errorf("endpoint = %q", cfg.Score.Endpoint)
	}
	// Unset keys keep defaults
	if cfg.Game.ReleaseThreshold != parameter.ReleaseThreshold {
		t.Errorf("release_threshold = %d", cfg.Game.ReleaseThreshold)
	}

	rules := cfg.Rules()
	want := []keyboard.Key{'A', 'S', 'D', 'F'}
	if len(rules.Pool) != len(want) {
		t.Fatalf("pool = %v, want %v", rules.Pool, want)
	}
	for i := range want {
		if rules.Pool[i] != want[i] {
			t.Errorf("pool[%d] = %v, want %v", i, rules.Pool[i], want[i])
		}
	}
	if rules.WinOnFullHold {
		t.Error("win_on_full_hold = false not applied")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "[game\nlives = ")
	if _, err := Load(path, true, ""); err == nil {
		t.Error("malformed file loaded without error")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "[game]\nlives = 0\n")
	_, err := Load(path, true, "")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "twister.toml", "[game]\nlives = 5\n")
	env := writeFile(t, dir, ".env", "TWISTER_LIVES=7\nTWISTER_SPECTATE=:8090\n")

	cfg, err := Load(path, true, env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Lives != 7 {
		t.Errorf("lives = %d, want .env override 7", cfg.Game.Lives)
	}
	if cfg.Spectate.Addr != ":8090" {
		t.Errorf("spectate = %q", cfg.Spectate.Addr)
	}
}

func TestEnvironmentOverridesEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "TWISTER_LIVES=7\n")
	t.Setenv("TWISTER_LIVES", "2")

	cfg, err := Load("", false, env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Lives != 2 {
		t.Errorf("lives = %d, want environment value 2", cfg.Game.Lives)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"TWISTER_POOL":             "qwerty",
		"TWISTER_TIME_LIMIT_MS":    "900",
		"TWISTER_WEIGHT_FACTOR":    "0.0",
		"TWISTER_WIN_ON_FULL_HOLD": "false",
		"TWISTER_TICK_MS":          "8",
		"TWISTER_AUDIO":            "0",
		"TWISTER_VOLUME":           "0.25",
		"TWISTER_DEBUG":            "true",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Game.Pool != "qwerty" || cfg.Game.TimeLimitMs != 900 || cfg.Game.WeightFactor != 0 {
		t.Errorf("game = %+v", cfg.Game)
	}
	if cfg.Game.WinOnFullHold || cfg.Audio.Enabled || !cfg.Debug {
		t.Errorf("bools not applied: %+v", cfg)
	}
	if cfg.Engine.TickMs != 8 || cfg.Audio.Volume != 0.25 {
		t.Errorf("numbers not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"TWISTER_LIVES": "many",
		"TWISTER_DEBUG": "perhaps",
	}))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if cfg.Game.Lives != parameter.StartingLives {
		t.Errorf("lives changed to %d on parse failure", cfg.Game.Lives)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty pool", func(c *Config) { c.Game.Pool = "" }},
		{"duplicate pool", func(c *Config) { c.Game.Pool = "AAB" }},
		{"symbol in pool", func(c *Config) { c.Game.Pool = "AB;" }},
		{"zero lives", func(c *Config) { c.Game.Lives = 0 }},
		{"too many lives", func(c *Config) { c.Game.Lives = parameter.MaxLives + 1 }},
		{"short time limit", func(c *Config) { c.Game.TimeLimitMs = 100 }},
		{"zero threshold", func(c *Config) { c.Game.ReleaseThreshold = 0 }},
		{"zero window", func(c *Config) { c.Game.ReleaseWindow = 0 }},
		{"negative weight", func(c *Config) { c.Game.WeightFactor = -1 }},
		{"zero tick", func(c *Config) { c.Engine.TickMs = 0 }},
		{"slow tick", func(c *Config) { c.Engine.TickMs = 250 }},
		{"unknown backend", func(c *Config) { c.Display.Backend = "sdl" }},
		{"unknown color", func(c *Config) { c.Display.Color = "16" }},
		{"loud volume", func(c *Config) { c.Audio.Volume = 2 }},
		{"zero score timeout", func(c *Config) { c.Score.TimeoutMs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Game.Lives = 0
	cfg.Display.Backend = "x"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("no error")
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("err = %v, want two joined errors", err)
	}
}

func TestExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "twister.example.toml"), true, "")
	if err != nil {
		t.Fatalf("Load example: %v", err)
	}
	if cfg != Default() {
		t.Errorf("example config = %+v, want defaults %+v", cfg, Default())
	}
}
