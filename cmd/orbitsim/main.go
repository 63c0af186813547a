package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	logLevel    string
	logFormat   string
	dt          float64
	duration    float64
	integrator  string
	sampleEvery int
	theme       string
	gifPath     string
	outPath     string
	inPath      string
	slot        string
	body        string
	numRuns     int
	profileMode string
	perturb     float64
	steps       int
	braille     bool
	cols, rows  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "orbital mechanics sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default from config)")
	pf.StringVar(&configFile, "config", "", "config file (yaml or toml)")
	pf.StringVar(&logLevel, "log-level", "", "log level")
	pf.StringVar(&logFormat, "log-format", "", "log format: json or console")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	pf.StringVar(&integrator, "integrator", "symplectic-euler", "integrator")
	pf.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every n steps")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "orbits.gif", "gif recording path")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "pick a scenario interactively",
		RunE:  runMenu,
	}
	menuCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from the primary for each body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and apsidal precession of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&cols, "cols", 72, "portrait width in cells")
	analyzeCmd.Flags().IntVar(&rows, "rows", 24, "portrait height in cells (0 disables)")

	chaosCmd := &cobra.Command{
		Use:   "chaos [scenario]",
		Short: "lyapunov exponent and velocity sweep for one body",
		Args:  cobra.ExactArgs(1),
		RunE:  chaosScenario,
	}
	chaosCmd.Flags().StringVar(&body, "body", "", "body to perturb (default: last body)")
	chaosCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "initial separation")

	exportCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render saved trajectories to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportCmd.Flags().BoolVar(&braille, "canvas", false, "export the braille canvas instead of vector paths")
	exportCmd.Flags().IntVar(&cols, "cols", 72, "canvas width in cells")
	exportCmd.Flags().IntVar(&rows, "rows", 24, "canvas height in cells")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "advance a scenario and save the world",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotWorld,
	}
	snapshotCmd.Flags().IntVar(&steps, "steps", 1000, "ticks to advance before saving")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "save file")
	snapshotCmd.Flags().StringVar(&slot, "slot", "", "named save slot in the user data directory")

	resumeCmd := &cobra.Command{
		Use:   "resume [scenario]",
		Short: "load a saved world and watch it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  resumeWorld,
	}
	resumeCmd.Flags().StringVarP(&inPath, "in", "i", "", "save file")
	resumeCmd.Flags().StringVar(&slot, "slot", "", "named save slot")
	resumeCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "run an ensemble of copies concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "ensemble size")
	benchCmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile")

	rootCmd.AddCommand(runCmd, liveCmd, menuCmd, presetsCmd, listCmd, plotCmd, analyzeCmd,
		chaosCmd, exportCmd, snapshotCmd, resumeCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the scenario config: --config file first, otherwise the
// named preset. Flags given on the command line override either.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		name := "circular"
		if len(args) > 0 {
			name = args[0]
		}
		var err error
		cfg, err = experiment.NewRegistry().GetScenario(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// setup loads config and builds the logger for a command.
func setup(cmd *cobra.Command, args []string) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func liveOptions(cfg *config.Config) viz.Options {
	opts := viz.DefaultOptions()
	opts.Title = cfg.Scenario
	opts.Dt = cfg.Dt
	opts.Theme = theme
	if gifPath != "" {
		opts.GIFPath = gifPath
	}
	return opts
}
