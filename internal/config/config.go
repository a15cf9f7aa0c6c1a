package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/integrators"
	"github.com/san-kum/kinematica/internal/scenario"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir     = ".kinematica"
	DefaultAddr        = ":8080"
	DefaultModel       = "gemini-2.5-flash"
	DefaultLogLevel    = "info"
	MemoryBackendLocal = "memory"
	MemoryBackendPG    = "postgres"
)

// Environment overrides.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "KINEMATICA_DATABASE_URL"
	EnvLogLevel    = "KINEMATICA_LOG_LEVEL"
	EnvDataDir     = "KINEMATICA_DATA_DIR"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Memory     MemoryConfig     `yaml:"memory"`
	LLM        LLMConfig        `yaml:"llm"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

type SimulationConfig struct {
	Integrator       string  `yaml:"integrator"`
	TimeStep         float64 `yaml:"time_step"`
	SolverIterations int     `yaml:"solver_iterations"`
	MaxSteps         int     `yaml:"max_steps"`
	SampleEvery      int     `yaml:"sample_every"`
	Restitution      float64 `yaml:"restitution"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	// Archive saves every verified run under DataDir.
	Archive bool `yaml:"archive"`
}

type MemoryConfig struct {
	Backend     string `yaml:"backend"`
	DatabaseURL string `yaml:"database_url"`
}

type LLMConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Integrator:       engine.DefaultIntegrator,
			TimeStep:         engine.DefaultTimeStep,
			SolverIterations: engine.DefaultSolverIterations,
			MaxSteps:         scenario.DefaultMaxSteps,
			SampleEvery:      scenario.DefaultSampleEvery,
			Restitution:      engine.DefaultRestitution,
		},
		Storage: StorageConfig{DataDir: DefaultDataDir, Archive: true},
		Memory:  MemoryConfig{Backend: MemoryBackendLocal},
		LLM:     LLMConfig{Model: DefaultModel},
		Server:  ServerConfig{Addr: DefaultAddr},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv reads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays the environment on top of file values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Memory.DatabaseURL = v
		c.Memory.Backend = MemoryBackendPG
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
}

func (c *Config) Validate() error {
	if _, err := integrators.ByName(c.Simulation.Integrator); err != nil {
		return err
	}
	if err := c.EngineParams().Validate(); err != nil {
		return err
	}
	if c.Simulation.MaxSteps <= 0 {
		return fmt.Errorf("simulation.max_steps must be positive, got %d", c.Simulation.MaxSteps)
	}
	switch c.Memory.Backend {
	case MemoryBackendLocal:
	case MemoryBackendPG:
		if c.Memory.DatabaseURL == "" {
			return errors.New("memory.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown memory backend: %s", c.Memory.Backend)
	}
	return nil
}

func (c *Config) EngineParams() engine.Params {
	p := engine.DefaultParams()
	p.Integrator = c.Simulation.Integrator
	p.TimeStep = c.Simulation.TimeStep
	p.SolverIterations = c.Simulation.SolverIterations
	p.Restitution = c.Simulation.Restitution
	return p
}

func (c *Config) Limits() scenario.Limits {
	return scenario.Limits{MaxSteps: c.Simulation.MaxSteps, SampleEvery: c.Simulation.SampleEvery}
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
