package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/san-kum/kinematica/internal/config"
	"github.com/san-kum/kinematica/internal/memory"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/parse"
	"github.com/san-kum/kinematica/internal/pipeline"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "kinematica.yaml"

var (
	dataDir    string
	configFile string
	logLevel   string
	problemIn  string
	preset     string
	text       string
	asJSON     bool
	allPresets bool
	workers    int
	limit      int
	addr       string

	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "kinematica",
		Short:             "solve and verify introductory mechanics problems",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve a problem analytically",
		Args:  cobra.NoArgs,
		RunE:  solveProblem,
	}
	addProblemFlags(solveCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "reproduce a problem in the rigid-body engine",
		Args:  cobra.NoArgs,
		RunE:  simulateProblem,
	}
	addProblemFlags(simulateCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "solve, simulate and score agreement",
		Args:  cobra.NoArgs,
		RunE:  verifyProblem,
	}
	addProblemFlags(verifyCmd)
	verifyCmd.Flags().BoolVar(&allPresets, "all-presets", false, "verify every preset concurrently")
	verifyCmd.Flags().IntVar(&workers, "workers", 4, "concurrent checks for --all-presets")

	parseCmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "turn a question into a problem file",
		Args:  cobra.ExactArgs(1),
		RunE:  parseText,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list preset problems",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print archived run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	recallCmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "find similar problems verified before",
		Args:  cobra.ExactArgs(1),
		RunE:  recallSimilar,
	}
	recallCmd.Flags().IntVar(&limit, "limit", memory.DefaultRecallLimit, "maximum matches")

	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "summarize recorded checks",
		Args:  cobra.NoArgs,
		RunE:  showInsights,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the json api",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	for _, c := range []*cobra.Command{solveCmd, simulateCmd, verifyCmd, parseCmd, recallCmd, insightsCmd, exportCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "print json")
	}

	rootCmd.AddCommand(solveCmd, simulateCmd, verifyCmd, parseCmd, presetsCmd, runsCmd, plotCmd, exportCmd, recallCmd, insightsCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&problemIn, "file", "", "problem file (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset problem as family/name")
	cmd.Flags().StringVar(&text, "text", "", "question text, parsed with the configured model")
}

// setup loads .env, the config file and environment overrides, then
// installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg = config.DefaultConfig()
	path := configFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if cmd.Flags().Changed("data") {
		cfg.Storage.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return nil
}

func sink() observe.Sink {
	return observe.NewSlogSink(logger, slog.LevelDebug)
}

// openMemory returns the configured experience store. The process-local
// store is seeded from the run archive.
func openMemory(ctx context.Context) (memory.Store, func(), error) {
	if cfg.Memory.Backend == config.MemoryBackendPG {
		pg, err := memory.OpenPostgres(ctx, cfg.Memory.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	}

	mem := memory.NewInMemory()
	runs, err := storage.New(cfg.Storage.DataDir).List()
	if err != nil {
		return nil, nil, err
	}
	n, err := memory.Replay(ctx, mem, runs)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("memory seeded from archive", "experiences", n)
	return mem, func() {}, nil
}

func newPipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	mem, closeMem, err := openMemory(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := []pipeline.Option{
		pipeline.WithLimits(cfg.Limits()),
		pipeline.WithMemory(mem),
		pipeline.WithSink(sink()),
	}
	if cfg.Storage.Archive {
		st := storage.New(cfg.Storage.DataDir)
		if err := st.Init(); err != nil {
			closeMem()
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithStorage(st))
	}
	return pipeline.New(cfg.EngineParams(), opts...), closeMem, nil
}

func newParser() (parse.Parser, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("text parsing needs %s", config.EnvAPIKey)
	}
	return parse.NewGemini(cfg.LLM.APIKey, cfg.LLM.Model), nil
}

// loadProblem resolves --file, --preset or --text into a problem.
func loadProblem(ctx context.Context) (problem.ParsedProblem, error) {
	set := 0
	for _, v := range []string{problemIn, preset, text} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return problem.ParsedProblem{}, errors.New("exactly one of --file, --preset or --text is required")
	}

	switch {
	case problemIn != "":
		return problem.Load(problemIn)
	case preset != "":
		family, name, ok := cutPreset(preset)
		if !ok {
			return problem.ParsedProblem{}, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		p := config.GetPreset(family, name)
		if p == nil {
			return problem.ParsedProblem{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(family))
		}
		return *p, nil
	default:
		parser, err := newParser()
		if err != nil {
			return problem.ParsedProblem{}, err
		}
		return parser.Parse(ctx, text)
	}
}

// cutPreset splits family/name, accepting any family spelling.
func cutPreset(s string) (family, name string, ok bool) {
	family, name, ok = strings.Cut(s, "/")
	if !ok || name == "" {
		return "", "", false
	}
	f, err := problem.ParseFamily(family)
	if err != nil {
		return "", "", false
	}
	return f.Slug(), name, true
}
