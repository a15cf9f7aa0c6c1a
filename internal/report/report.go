// Package report renders solutions, verification results and stored runs
// for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kinematica/internal/analysis"
	"github.com/san-kum/kinematica/internal/pipeline"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/san-kum/kinematica/internal/verify"
)

const (
	plotHeight = 10
	plotWidth  = 70
	barWidth   = 20
)

func Solution(sol problem.Solution) string {
	lines := []string{
		Title.Render("Analytical solution"),
		row("quantity", sol.Quantity),
		row("answer", Value.Render(sol.Answer.String())+" "+sol.Unit),
		row("method", sol.Method),
	}
	if len(sol.Steps) > 0 {
		lines = append(lines, Label.Render("steps:"))
		for i, s := range sol.Steps {
			lines = append(lines, Subtle.Render(fmt.Sprintf("  %d. %s", i+1, s)))
		}
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func Verification(vr problem.VerificationResult) string {
	status := Valid.Render("VALID")
	if !vr.IsValid {
		status = Invalid.Render("INVALID")
	}
	lines := []string{
		Title.Render("Verification") + "  " + status,
	}
	if vr.Error != "" {
		lines = append(lines, row("error", Invalid.Render(vr.Error)))
		return Panel.Render(strings.Join(lines, "\n"))
	}
	lines = append(lines,
		row("quantity", vr.Quantity),
		row("analytical", vr.AnalyticalResult.String()),
		row("simulated", vr.SimulatedValue.String()),
		row("agreement", fmt.Sprintf("%s %.4f (%s)",
			ConfidenceBar(vr.AgreementScore, barWidth), vr.AgreementScore, verify.ConfidenceLabel(vr.AgreementScore))),
	)
	return Panel.Render(strings.Join(lines, "\n"))
}

func Simulation(res problem.SimResult) string {
	lines := []string{
		Title.Render("Simulation"),
		row("steps", fmt.Sprintf("%d", res.Steps)),
		row("sim time", fmt.Sprintf("%.4f s", res.SimTime)),
		row("energy drift", fmt.Sprintf("%.3e", res.EnergyDrift)),
	}
	lines = append(lines, measurementRows(res.Measurement)...)
	if len(res.Trajectory) > 0 {
		speeds := make([]float64, len(res.Trajectory))
		for i, s := range res.Trajectory {
			speeds[i] = s.Speed
		}
		sum := analysis.Summarize(speeds)
		lines = append(lines,
			row("speed", Sparkline(speeds, 40)),
			row("speed range", fmt.Sprintf("%.3f .. %.3f m/s (mean %.3f, %d samples)", sum.Min, sum.Max, sum.Mean, sum.Count)),
		)
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func measurementRows(m problem.Measurement) []string {
	f := func(label string, v float64, unit string) string {
		return row(label, Value.Render(fmt.Sprintf("%.4f", v))+" "+unit)
	}
	switch r := m.(type) {
	case problem.ProjectileResult:
		return []string{f("range", r.Range, "m"), f("max height", r.MaxHeight, "m"), f("time of flight", r.TimeFlight, "s")}
	case problem.FreeFallResult:
		return []string{f("distance", r.Distance, "m"), f("final velocity", r.FinalVelocity, "m/s"), f("fall time", r.TimeFall, "s")}
	case problem.PendulumResult:
		rows := []string{f("period", r.Period, "s"), f("max velocity", r.MaxVelocity, "m/s")}
		if r.Crossings > 0 {
			rows = append(rows, row("crossings", fmt.Sprintf("%d", r.Crossings)))
		}
		return rows
	case problem.CollisionResult:
		return []string{f("velocity A", r.VelocityA, "m/s"), f("velocity B", r.VelocityB, "m/s")}
	}
	return nil
}

// Check renders a full pipeline report.
func Check(rep pipeline.Report) string {
	parts := []string{Solution(rep.Solution), Verification(rep.Verification)}
	if rep.Simulation != nil {
		parts = append(parts, Simulation(*rep.Simulation))
	}
	if rep.RunID != "" {
		parts = append(parts, Subtle.Render("run: "+rep.RunID))
	}
	return strings.Join(parts, "\n")
}

// Plot draws the trajectory height and speed against sample index.
func Plot(family problem.Family, samples []problem.Sample) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	xs := make([]float64, len(samples))
	zs := make([]float64, len(samples))
	speeds := make([]float64, len(samples))
	for i, s := range samples {
		xs[i], zs[i], speeds[i] = s.X, s.Z, s.Speed
	}

	vertical := "height z (m)"
	horizontal := "horizontal x (m)"
	if family == problem.Pendulum {
		vertical = "bob height z (m)"
		horizontal = "bob swing x (m)"
	}

	var b strings.Builder
	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{zs, vertical},
		{xs, horizontal},
		{speeds, "speed (m/s)"},
	} {
		b.WriteString(asciigraph.Plot(series.data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(series.caption),
		))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// Runs writes a table of stored runs.
func Runs(w io.Writer, runs []storage.RunMetadata) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAMILY\tTIME\tQUANTITY\tANSWER\tAGREEMENT\tVALID")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.4f\t%t\n",
			run.ID,
			run.Family,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Quantity,
			run.Answer,
			run.Verification.AgreementScore,
			run.Verification.IsValid,
		)
	}
	return tw.Flush()
}
