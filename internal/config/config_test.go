package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.Integrator != "verlet" {
		t.Errorf("expected integrator verlet, got %s", cfg.Simulation.Integrator)
	}
	if cfg.Simulation.TimeStep != 1.0/240 {
		t.Errorf("expected time step 1/240, got %f", cfg.Simulation.TimeStep)
	}
	if cfg.Simulation.MaxSteps != 10000 {
		t.Errorf("expected 10000 max steps, got %d", cfg.Simulation.MaxSteps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinematica.yaml")
	doc := `simulation:
  integrator: rk4
  max_steps: 500
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.Integrator != "rk4" || cfg.Simulation.MaxSteps != 500 {
		t.Errorf("file values not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.SolverIterations != 10 {
		t.Errorf("unset values should keep defaults, got %d iterations", cfg.Simulation.SolverIterations)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
	if cfg.Limits() != (scenario.Limits{MaxSteps: 500, SampleEvery: 4}) {
		t.Errorf("unexpected limits %+v", cfg.Limits())
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Server.Addr = ":9999"
	cfg.LLM.APIKey = "secret"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "secret") {
		t.Error("api key must not be written to disk")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Addr != ":9999" {
		t.Errorf("expected addr :9999, got %s", loaded.Server.Addr)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/kinematica")
	t.Setenv(EnvDataDir, "/tmp/runs")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.LLM.APIKey != "key" {
		t.Errorf("api key not applied")
	}
	if cfg.Memory.Backend != MemoryBackendPG || cfg.Memory.DatabaseURL == "" {
		t.Errorf("database url should switch backend: %+v", cfg.Memory)
	}
	if cfg.Storage.DataDir != "/tmp/runs" {
		t.Errorf("data dir not applied: %s", cfg.Storage.DataDir)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("KINEMATICA_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("KINEMATICA_TEST_DOTENV") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal(err)
	}
	if os.Getenv("KINEMATICA_TEST_DOTENV") != "loaded" {
		t.Error("dotenv value not loaded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"integrator", func(c *Config) { c.Simulation.Integrator = "rk45" }},
		{"time step", func(c *Config) { c.Simulation.TimeStep = 0 }},
		{"max steps", func(c *Config) { c.Simulation.MaxSteps = 0 }},
		{"backend", func(c *Config) { c.Memory.Backend = "redis" }},
		{"postgres url", func(c *Config) { c.Memory.Backend = MemoryBackendPG }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("pendulum", "standard")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if v, _ := p.Param(problem.ParamLength); v != 1 {
		t.Errorf("expected length 1, got %f", v)
	}

	p.Parameters[problem.ParamLength] = 99
	again := GetPreset("pendulum", "standard")
	if v, _ := again.Param(problem.ParamLength); v != 1 {
		t.Error("preset table was modified through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "standard") != nil {
		t.Error("expected nil for nonexistent family")
	}
}

func TestListPresets(t *testing.T) {
	for _, family := range PresetFamilies() {
		names := ListPresets(family)
		if len(names) == 0 {
			t.Errorf("expected presets for %s", family)
		}
		for _, name := range names {
			p := GetPreset(family, name)
			if _, err := scenario.From(*p); err != nil {
				t.Errorf("%s/%s is not a valid problem: %v", family, name, err)
			}
			if p.Family.Slug() != family {
				t.Errorf("%s/%s filed under the wrong family %s", family, name, p.Family)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent family")
	}
	if len(AllPresets()) != 11 {
		t.Errorf("expected 11 presets, got %d", len(AllPresets()))
	}
}
