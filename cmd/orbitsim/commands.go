package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/persist"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(cfg.Storage.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, log)
	if err := exp.Setup(registry.DefaultMetrics(cfg)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted, saving partial result", zap.Error(err))
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Scenario:   cfg.Scenario,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Gravity:    cfg.Gravity.Mode,
		Orbits:     result.Orbits,
	}
	runID, err := st.Save(meta, &result.Result, result.Markers)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  samples: %d  orbits: %d\n", result.StepsTaken, len(result.Samples), result.Orbits)
	fmt.Println("\nmetrics:")
	for _, name := range registry.ListMetrics() {
		if v, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %v\n", e)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.Load(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	return viz.RunLive(sc, liveOptions(cfg))
}

func runMenu(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	load := func(name string) (*scene.Scene, error) {
		cfg, err := registry.GetScenario(name)
		if err != nil {
			return nil, err
		}
		return scene.Load(cfg, zap.NewNop())
	}
	opts := viz.DefaultOptions()
	opts.Theme = theme
	return viz.RunMenu(registry.ListScenarios(), registry.Describe, load, opts)
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTEG\tBODIES\tDESCRIPTION")
	for _, name := range registry.ListScenarios() {
		cfg, err := registry.GetScenario(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, cfg.Integrator, len(cfg.Bodies), registry.Describe(name))
	}
	fmt.Fprintf(w, "\nintegrators: %s\n", strings.Join(registry.ListIntegrators(), ", "))
	return w.Flush()
}

func openStore() *storage.Store {
	dir := dataDir
	if dir == "" {
		dir = config.DefaultConfig().Storage.DataDir
	}
	return storage.New(dir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tORBITS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.4f\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Orbits,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	res, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(res.Samples) == 0 || len(res.Names) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(res.Samples))

	const maxPlots = 6
	for i := 1; i < len(res.Names) && i <= maxPlots; i++ {
		data := analysis.RadialSeries(res, i, 0)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s distance from %s", res.Names[i], res.Names[0])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	markers, err := st.LoadMarkers(runID)
	if err != nil {
		return err
	}
	if len(markers) > 0 {
		fmt.Println("orbit markers:")
		for _, mk := range markers {
			fmt.Printf("  t=%-10.2f %-10s orbit %-4d period %.3f\n", mk.Time, mk.Name, mk.Number, mk.Period)
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	res, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(res.Names) < 2 {
		return fmt.Errorf("analysis needs at least two bodies")
	}
	interval := analysis.SampleInterval(res)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPERIOD\tPERIAPSES\tMIN R\tPRECESSION/ORBIT")
	for i := 1; i < len(res.Names); i++ {
		period := "-"
		if p, ok := analysis.DominantPeriod(analysis.RadialSeries(res, i, 0), interval); ok {
			period = fmt.Sprintf("%.3f", p)
		}
		apses := analysis.Periapses(res, i, 0)
		minR := math.Inf(1)
		for _, a := range apses {
			minR = math.Min(minR, a.Radius)
		}
		minText := "-"
		if len(apses) > 0 {
			minText = fmt.Sprintf("%.3f", minR)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.3e rad\n",
			res.Names[i], period, len(apses), minText, analysis.Precession(apses))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rows > 0 && cols > 0 {
		cv := viz.NewCanvas(cols, rows)
		viz.DrawResult(cv, res)
		fmt.Printf("\n%s", cv.String())
	}
	return nil
}

func chaosScenario(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer log.Sync()

	if len(cfg.Bodies) < 2 {
		return fmt.Errorf("scenario %s has fewer than two bodies", cfg.Scenario)
	}
	target := body
	if target == "" {
		target = cfg.Bodies[len(cfg.Bodies)-1].Name
	}
	build := func() (*scene.Scene, error) {
		return scene.Load(cfg.Clone(), zap.NewNop())
	}

	lambda, err := analysis.LyapunovExponent(build, target, perturb, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}
	fmt.Printf("lyapunov exponent of %s: %.6f\n\n", target, lambda)

	factors := []float64{0.6, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5}
	points, err := analysis.VelocitySweep(build, target, factors, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FACTOR\tA\tE\tBOUND\tORBITS")
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.4f\t%t\t%d\n", p.Factor, p.SemiMajorAxis, p.Eccentricity, p.Bound, p.Orbits)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()
	res, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	markers, err := st.LoadMarkers(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	style := export.DefaultStyle()
	style.Markers = markers
	if braille {
		cv := viz.NewCanvas(cols, rows)
		viz.DrawResult(cv, res)
		err = export.CanvasToSVG(f, cv, 4, style)
	} else {
		err = export.TrajectoriesToSVG(f, res, style)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func snapshotWorld(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer log.Sync()

	if outPath == "" && slot == "" {
		return errors.New("need --out or --slot")
	}
	sc, err := scene.Load(cfg, log.Named("scene"))
	if err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		sc.Step(cfg.Dt)
	}

	if slot != "" {
		slots, err := persist.OpenSlots(cfg.Storage.AppName, log)
		if err != nil {
			return err
		}
		if err := slots.Save(slot, sc); err != nil {
			return err
		}
		fmt.Printf("saved t=%.3f to slot %s\n", sc.Time(), slot)
		return nil
	}
	if err := persist.SaveWorld(outPath, sc); err != nil {
		return err
	}
	fmt.Printf("saved t=%.3f to %s\n", sc.Time(), outPath)
	return nil
}

// resumeWorld loads a save over a scene built from the scenario config, so
// the integrator and gravity settings come from config while the bodies come
// from the save.
func resumeWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.Load(cfg, zap.NewNop())
	if err != nil {
		return err
	}

	switch {
	case slot != "":
		slots, err := persist.OpenSlots(cfg.Storage.AppName, zap.NewNop())
		if err != nil {
			return err
		}
		if err := slots.Load(slot, sc); err != nil {
			return err
		}
	case inPath != "":
		if err := persist.LoadWorld(inPath, sc); err != nil {
			return err
		}
	default:
		return errors.New("need --in or --slot")
	}
	return viz.RunLive(sc, liveOptions(cfg))
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer log.Sync()

	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode: %s", profileMode)
	}

	registry := experiment.NewRegistry()
	build := func(int) (*scene.Scene, error) {
		return scene.Load(cfg.Clone(), zap.NewNop())
	}
	ens := sim.NewEnsemble(build, numRuns, log)
	ens.NewMetrics = func() []sim.Metric { return registry.DefaultMetrics(cfg) }

	exp := experiment.New(cfg, log)
	runCfg := exp.RunConfig()

	fmt.Printf("running %d x %s (%s, dt=%g, t=%g)...\n", numRuns, cfg.Scenario, cfg.Integrator, cfg.Dt, cfg.Duration)
	start := time.Now()
	results, err := ens.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := 0
	worst := 0.0
	for _, r := range results {
		total += r.StepsTaken
		worst = math.Max(worst, r.EnergyDrift)
	}
	fmt.Printf("elapsed: %v\n", elapsed)
	fmt.Printf("steps: %d (%.0f steps/s)\n", total, float64(total)/elapsed.Seconds())
	fmt.Printf("bodies per scene: %d\n", len(cfg.Bodies))
	fmt.Printf("worst energy drift: %.3e\n", worst)
	return nil
}
