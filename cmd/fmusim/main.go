package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jondo2010/fmusim/internal/config"
	"github.com/jondo2010/fmusim/internal/driver"
	"github.com/jondo2010/fmusim/internal/integrators"
	"github.com/jondo2010/fmusim/internal/metrics"
	"github.com/jondo2010/fmusim/internal/models"
	"github.com/jondo2010/fmusim/internal/series"
	"github.com/jondo2010/fmusim/internal/storage"
	"github.com/jondo2010/fmusim/internal/tui"
)

var (
	dataDir string
	verbose bool

	mode        string
	integrator  string
	startTime   float64
	stopTime    float64
	interval    float64
	tolerance   float64
	eventMode   bool
	earlyReturn bool
	inputFile   string
	repeat      int
	setValues   []string
	live        bool
	frameRate   int

	configFile string
	preset     string

	plotColumn string
	plotWidth  int
	plotHeight int

	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fmusim",
		Short: "simulation driver for co-simulation and model-exchange components",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fmusim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&mode, "mode", "", "interface mode (co-simulation, model-exchange)")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "integrator for model exchange (euler, rk4)")
	runCmd.Flags().Float64Var(&startTime, "start", 0, "start time")
	runCmd.Flags().Float64Var(&stopTime, "stop", config.DefaultStopTime, "stop time")
	runCmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "output interval")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "relative tolerance (0 = component default)")
	runCmd.Flags().BoolVar(&eventMode, "event-mode", true, "use event mode in co-simulation")
	runCmd.Flags().BoolVar(&earlyReturn, "early-return", false, "allow steps to return early")
	runCmd.Flags().StringVar(&inputFile, "input", "", "input time series CSV")
	runCmd.Flags().IntVar(&repeat, "repeat", 1, "run count, with a reset in between")
	runCmd.Flags().StringArrayVar(&setValues, "set", nil, "start value override (name=value, repeatable)")
	runCmd.Flags().BoolVar(&live, "live", false, "render outputs live while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "live view frame rate")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored run outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "", "plot a single output column")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run outputs to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and outputs to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list built-in models",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range models.Names() {
				fmt.Println(name)
			}
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, tbl, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}
			return tui.Watch(meta, tbl)
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, modelsCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers the run configuration: flags override the config
// file, the config file overrides the preset, the preset overrides defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets(model))
		}
		// copy so flag and --set overrides never touch the preset table
		c := *p
		c.StartValues = make(map[string]any, len(p.StartValues))
		for k, v := range p.StartValues {
			c.StartValues[k] = v
		}
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("start") {
		cfg.StartTime = startTime
	}
	if cmd.Flags().Changed("stop") {
		cfg.StopTime = stopTime
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = interval
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("event-mode") {
		cfg.EventMode = eventMode
	}
	if cmd.Flags().Changed("early-return") {
		cfg.EarlyReturn = earlyReturn
	}
	if cmd.Flags().Changed("input") {
		cfg.Input.File = inputFile
	}
	if cmd.Flags().Changed("repeat") {
		cfg.Repeat = repeat
	}

	for _, kv := range setValues {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set wants name=value, got %q", kv)
		}
		var val any
		if err := yaml.Unmarshal([]byte(raw), &val); err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		if cfg.StartValues == nil {
			cfg.StartValues = make(map[string]any)
		}
		cfg.StartValues[name] = val
	}

	return cfg, nil
}

func newLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(log)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	log := newLogger().WithField("model", cfg.Model)

	inst, err := models.Lookup(cfg.Model)
	if err != nil {
		return err
	}

	runMode, err := driver.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	var method integrators.Method
	if runMode == driver.ModelExchange {
		method, err = integrators.New(cfg.Integrator)
		if err != nil {
			return err
		}
	}

	var table *series.Table
	if cfg.Input.File != "" {
		kinds, err := cfg.InputKinds()
		if err != nil {
			return err
		}
		table, err = series.LoadCSV(cfg.Input.File, kinds)
		if err != nil {
			return fmt.Errorf("failed to load input: %w", err)
		}
	}

	overrides, err := cfg.StartOverrides(inst.Model())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	repeats := cfg.Repeat
	if repeats < 1 {
		repeats = 1
	}

	params := cfg.Params()
	for i := 0; i < repeats; i++ {
		if i > 0 {
			if s := inst.Reset(); s.Bad() {
				return fmt.Errorf("reset before run %d failed: %v", i+1, s)
			}
		}

		opts := driver.Options{
			Mode:      runMode,
			Method:    method,
			Overrides: overrides,
			Logger:    log,
		}
		var renderer *tui.LiveRenderer
		if live {
			var names []string
			for _, v := range inst.Model().Outputs() {
				names = append(names, v.Name)
			}
			renderer = tui.NewLiveRenderer(cfg.Model, names, frameRate)
			renderer.Start()
			opts.Observers = append(opts.Observers, renderer)
		}

		fmt.Printf("running %s (%s)...\n", cfg.Model, runMode)
		start := time.Now()
		res, stats, runErr := driver.Simulate(inst, params, table, opts)
		elapsed := time.Since(start)
		if renderer != nil {
			renderer.Stop()
		}
		if runErr != nil {
			return runErr
		}

		m := metrics.Summarize(res)
		runID, err := st.Save(cfg.Model, runMode.String(), cfg.Integrator, params, stats, m, res)
		if err != nil {
			return err
		}

		fmt.Printf("completed in %v\n", elapsed)
		fmt.Printf("run id: %s\n", runID)
		fmt.Printf("steps: %d, rows: %d, events: %d state / %d time / %d step / %d input\n",
			stats.Steps, stats.RowsRecorded,
			stats.StateEvents, stats.TimeEvents, stats.StepEvents, stats.InputEvents)
		if stats.Terminated {
			fmt.Printf("terminated by component at t=%.6f\n", stats.TerminatedAt)
		}
		if len(m) > 0 {
			fmt.Println("metrics:")
			for _, name := range sortedKeys(m) {
				fmt.Printf("  %s: %.6g\n", name, m[name])
			}
		}
	}

	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tMODE\tSTOP\tINTERVAL\tROWS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.StopTime,
			run.Interval,
			run.Stats.RowsRecorded,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tbl, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if tbl.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.Mode)
	fmt.Printf("samples: %d\n\n", tbl.Len())

	plotted := 0
	for _, c := range tbl.Columns() {
		if plotColumn != "" && c.Name != plotColumn {
			continue
		}
		if !c.Kind.Numeric() {
			continue
		}

		data := make([]float64, c.Len())
		for i := range data {
			data[i] = c.Float(i)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("%s vs time", c.Name)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		if plotColumn != "" {
			return fmt.Errorf("no numeric column %q in run %s", plotColumn, meta.ID)
		}
		return fmt.Errorf("no numeric columns in run %s", meta.ID)
	}
	return nil
}

func openOutput() (*os.File, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, tbl, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	out, done, err := openOutput()
	if err != nil {
		return err
	}
	defer done()
	return storage.ExportCSV(out, tbl)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, tbl, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	out, done, err := openOutput()
	if err != nil {
		return err
	}
	defer done()
	return storage.ExportJSON(out, meta, tbl)
}
