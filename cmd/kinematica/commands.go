package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/san-kum/kinematica/internal/config"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/report"
	"github.com/san-kum/kinematica/internal/server"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func solveProblem(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd.Context())
	if err != nil {
		return err
	}
	pl, closeMem, err := newPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMem()

	sol, err := pl.Solver().Solve(p)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(sol)
	}
	fmt.Println(report.Solution(sol))
	return nil
}

func simulateProblem(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd.Context())
	if err != nil {
		return err
	}
	pl, closeMem, err := newPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMem()

	res, err := pl.Simulator().Simulate(p)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(struct {
			Result     problem.SimResult `json:"result"`
			Trajectory []problem.Sample  `json:"trajectory"`
		}{res, res.Trajectory})
	}
	fmt.Println(report.Simulation(res))
	return nil
}

func verifyProblem(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pl, closeMem, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer closeMem()

	if allPresets {
		names := make([]string, 0)
		problems := make([]problem.ParsedProblem, 0)
		for _, family := range config.PresetFamilies() {
			for _, name := range config.ListPresets(family) {
				names = append(names, family+"/"+name)
				problems = append(problems, *config.GetPreset(family, name))
			}
		}
		items, err := pl.CheckAll(ctx, problems, workers)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(items)
		}
		failed := 0
		for _, it := range items {
			switch {
			case it.Error != "":
				failed++
				fmt.Printf("%-22s %s\n", names[it.Index], report.Invalid.Render(it.Error))
			case !it.Report.Verification.IsValid:
				failed++
				fmt.Printf("%-22s %s\n", names[it.Index], report.Invalid.Render("INVALID "+it.Report.Verification.Error))
			default:
				fmt.Printf("%-22s %s %.4f\n", names[it.Index],
					report.ConfidenceBar(it.Report.Verification.AgreementScore, 20), it.Report.Verification.AgreementScore)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d presets failed verification", failed, len(items))
		}
		return nil
	}

	p, err := loadProblem(ctx)
	if err != nil {
		return err
	}
	rep, err := pl.Check(ctx, p)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(rep)
	}
	fmt.Println(report.Check(rep))
	return nil
}

func parseText(cmd *cobra.Command, args []string) error {
	parser, err := newParser()
	if err != nil {
		return err
	}
	p, err := parser.Parse(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(p)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(p)
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.PresetFamilies()
	if len(args) == 1 {
		f, err := problem.ParseFamily(args[0])
		if err != nil {
			return err
		}
		families = []string{f.Slug()}
	}
	for _, family := range families {
		names := config.ListPresets(family)
		if len(names) == 0 {
			fmt.Printf("no presets for family: %s\n", family)
			continue
		}
		fmt.Printf("presets for %s:\n", family)
		for _, name := range names {
			p := config.GetPreset(family, name)
			fmt.Printf("  %-10s %s\n", name, report.Subtle.Render(p.Text))
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(cfg.Storage.DataDir).List()
	if err != nil {
		return err
	}
	return report.Runs(os.Stdout, runs)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(cfg.Storage.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("family: %s\n", meta.Family)
	fmt.Printf("samples: %d\n\n", len(samples))

	out, err := report.Plot(meta.Family, samples)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(cfg.Storage.DataDir).Load(args[0])
	if err != nil {
		return err
	}
	return storage.Export(os.Stdout, meta)
}

func recallSimilar(cmd *cobra.Command, args []string) error {
	mem, closeMem, err := openMemory(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMem()

	matches, err := mem.Recall(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(matches)
	}
	if len(matches) == 0 {
		fmt.Println("no similar problems found")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%.2f  %s\n", m.Similarity, m.ProblemText)
		fmt.Printf("      %s %s %s\n", report.Value.Render(m.Answer.String()), m.Unit,
			report.Subtle.Render(fmt.Sprintf("(%s, confidence %.3f)", m.Family, m.Confidence)))
	}
	return nil
}

func showInsights(cmd *cobra.Command, args []string) error {
	mem, closeMem, err := openMemory(cmd.Context())
	if err != nil {
		return err
	}
	defer closeMem()

	in, err := mem.Insights(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(in)
	}
	fmt.Printf("checks:             %d\n", in.Total)
	fmt.Printf("verified:           %d (%.1f%%)\n", in.Successes, in.SuccessRate*100)
	fmt.Printf("average confidence: %.4f\n", in.AverageConfidence)
	fmt.Printf("average agreement:  %.4f\n", in.AverageAgreement)
	fmt.Printf("median agreement:   %.4f\n", in.MedianAgreement)
	for _, f := range problem.Families {
		if n := in.ByFamily[f]; n > 0 {
			fmt.Printf("  %-12s %d\n", f, n)
		}
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pl, closeMem, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer closeMem()

	opts := server.Options{Logger: logger}
	if cfg.LLM.APIKey != "" {
		opts.Parser, _ = newParser()
	}
	if cfg.Storage.Archive {
		opts.Store = storage.New(cfg.Storage.DataDir)
	}

	listen := cfg.Server.Addr
	if addr != "" {
		listen = addr
	}
	return server.New(pl, opts).ListenAndServe(ctx, listen)
}
