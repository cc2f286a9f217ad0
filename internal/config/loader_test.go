package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	tests := []struct {
		name     string
		embedded []byte
		want     GameConfig
	}{
		{"bubblepop", defaultBubblepopYAML, DefaultBubblepopConfig()},
		{"dodger", defaultDodgerYAML, DefaultDodgerConfig()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.embedded, GameConfig{})
			if err != nil {
				t.Fatalf("decode embedded: %v", err)
			}
			if got != tt.want {
				t.Errorf("embedded yaml differs from hardcoded defaults\n got: %+v\nwant: %+v", got, tt.want)
			}
		})
	}

	snake, err := decode(defaultSnakeYAML, SnakeConfig{})
	if err != nil {
		t.Fatalf("decode snake: %v", err)
	}
	if snake != DefaultSnakeConfig() {
		t.Errorf("snake yaml = %+v, want %+v", snake, DefaultSnakeConfig())
	}
}

func TestLoadGameCustomPathOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := "field:\n  width: 200\nmodes:\n  time_attack:\n    time_limit: 30\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGame("bubblepop", path)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if cfg.Field.Width != 200 {
		t.Errorf("width = %v, want 200", cfg.Field.Width)
	}
	if cfg.Field.Height != 640 {
		t.Errorf("height = %v, want default 640", cfg.Field.Height)
	}
	if cfg.Modes.TimeAttack.TimeLimit != 30 {
		t.Errorf("time limit = %d, want 30", cfg.Modes.TimeAttack.TimeLimit)
	}
	if cfg.Modes.Survival.Lives != 3 {
		t.Errorf("survival lives = %d, want default 3", cfg.Modes.Survival.Lives)
	}
}

func TestLoadGameCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadGame("bubblepop", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("field:\n  width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadGame("bubblepop", bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadGameUnknownID(t *testing.T) {
	if _, err := LoadGame("pinball", ""); err == nil {
		t.Error("expected error for unknown game without a custom path")
	}
}

func TestLoadSnakeDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake: %v", err)
	}
	if cfg.Grid != 20 || cfg.StepMs != 100 {
		t.Errorf("snake defaults = %+v", cfg)
	}
}

func TestGameConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"bad travel", func(c *GameConfig) { c.Field.Travel = "sideways" }},
		{"zero physics", func(c *GameConfig) { c.Timing.PhysicsMs = 0 }},
		{"no lives", func(c *GameConfig) { c.Modes.Survival.Lives = 0 }},
		{"skip always", func(c *GameConfig) { c.Spawn.SkipChance = 1 }},
		{"no attempts", func(c *GameConfig) { c.Spawn.Attempts = 0 }},
		{"chances saturate", func(c *GameConfig) { c.Spawn.BonusChance = 0.8 }},
		{"hazard limit saturates", func(c *GameConfig) { c.Difficulty.HazardChance.Limit = 0.95 }},
		{"actor without size", func(c *GameConfig) { c.Actor = ActorConfig{Enabled: true} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultBubblepopConfig()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestReporterConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ReporterConfig
		wantErr bool
	}{
		{"defaults", DefaultReporterConfig(), false},
		{"none", ReporterConfig{Kind: "none", TimeoutMs: 1, QueueSize: 1, Workers: 1}, false},
		{"http without url", ReporterConfig{Kind: "http", TimeoutMs: 1, QueueSize: 1, Workers: 1}, true},
		{"http with url", ReporterConfig{Kind: "http", URL: "http://localhost:8090/events", TimeoutMs: 1, QueueSize: 1, Workers: 1}, false},
		{"unknown kind", ReporterConfig{Kind: "kafka", TimeoutMs: 1, QueueSize: 1, Workers: 1}, true},
		{"zero workers", ReporterConfig{Kind: "log", TimeoutMs: 1, QueueSize: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestLoadReporterCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporter.yaml")
	if err := os.WriteFile(path, []byte("kind: http\nurl: http://example.test/events\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadReporter(path)
	if err != nil {
		t.Fatalf("LoadReporter: %v", err)
	}
	if cfg.Kind != "http" || cfg.URL != "http://example.test/events" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Workers != DefaultReporterConfig().Workers {
		t.Errorf("omitted keys should keep defaults, got workers=%d", cfg.Workers)
	}
}
