package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/engine"
	"github.com/san-kum/spinsim/internal/logging"
	"github.com/san-kum/spinsim/internal/solver"
	"github.com/san-kum/spinsim/internal/state"
	"github.com/san-kum/spinsim/internal/storage"
	"github.com/san-kum/spinsim/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	dataDir  string
	logDir   string
	logLevel string
	quiet    bool

	configFile string
	preset     string
	solverName string
	imageIdx   int
	allImages  bool
	timeout    time.Duration
	interval   time.Duration
	every      int
	overrides  []string

	series string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spinsim",
		Short:         "spin configuration relaxation and transition path lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "log directory (default <data>/logs)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.LevelInfo, "log level: "+strings.Join(logging.ValidLevels(), ", "))

	runCmd := &cobra.Command{
		Use:   "run [method]",
		Short: "run a method (llg, mmf, gneb) until it converges, stops or times out",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	runCmd.Flags().StringVar(&solverName, "solver", "", "solver (default from config)")
	runCmd.Flags().IntVar(&imageIdx, "image", -1, "image index, negative for the active image")
	runCmd.Flags().BoolVar(&allImages, "all-images", false, "run an image method on every image in parallel")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "stop all methods after this duration (0 for none)")
	runCmd.Flags().DurationVar(&interval, "interval", time.Second, "status print interval")
	runCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a hamiltonian param, e.g. --set exchange=1.2 (repeatable)")
	runCmd.Flags().IntVar(&every, "record-every", 1, "record every n-th iteration in the stored history")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output and info logs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the convergence history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", string(viz.SeriesForce), "series to plot: force, energy")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s %dx%dx%d, %d image(s), %s\n", name,
					p.Lattice.Nx, p.Lattice.Ny, p.Lattice.Nz, p.Chain.Images, p.Chain.Initial)
			}
			return nil
		},
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list methods and solvers",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("methods:")
			for _, k := range engine.Kinds() {
				scope := "image"
				if k.ChainScoped() {
					scope = "chain"
				}
				fmt.Printf("  %-6s (%s)\n", k, scope)
			}
			fmt.Println("solvers:")
			for _, s := range solver.List() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with default or preset values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "preset to write")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, presetsCmd, methodsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	}
	return config.Load("")
}

// run tracks one dispatched method and what it recorded.
type run struct {
	target    string
	image     int
	threshold float64
	method    engine.Method
	history   *engine.History
}

func runMethod(cmd *cobra.Command, args []string) error {
	kind, err := engine.ParseKind(args[0])
	if err != nil {
		return err
	}
	if allImages && kind.ChainScoped() {
		return fmt.Errorf("--all-images does not apply to chain method %s", kind)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") && cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if logDir == "" {
		logDir = cfg.Logging.Dir
	}
	if logDir == "" {
		logDir = filepath.Join(dataDir, "logs")
	}

	params, err := config.ParseOverrides(overrides)
	if err != nil {
		return err
	}

	root, err := logging.NewLogger(logDir, logging.ParseLevel(logLevel))
	if err != nil {
		return err
	}
	defer root.Close()
	log := root.With("preset", preset, "config", configFile)

	chain, err := config.BuildChain(cfg)
	if err != nil {
		log.Error("chain construction failed", "error", err)
		return err
	}
	if err := config.ApplyOverrides(chain, params); err != nil {
		log.Error("hamiltonian override failed", "error", err)
		return err
	}

	st, err := state.New(chain,
		state.WithLogger(log),
		state.WithQuiet(quiet),
		state.WithConfigFile(configFile),
	)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	targets := []int{imageIdx}
	if allImages {
		targets = targets[:0]
		for i := 0; i < chain.NOI(); i++ {
			targets = append(targets, i)
		}
	}

	runs := make([]*run, 0, len(targets))
	for _, idx := range targets {
		h := engine.NewHistory()
		m, err := st.Dispatch(kind, solverName, idx, -1, engine.WithObserver(engine.Every{N: every, Next: h}))
		if err != nil {
			st.StopAll()
			return err
		}
		r := &run{target: "chain", image: -1, threshold: threshold(cfg, kind), method: m, history: h}
		if !kind.ChainScoped() {
			resolved, err := st.FromIndices(idx, -1)
			if err != nil {
				st.StopAll()
				return err
			}
			r.image = resolved.IdxImage
			r.target = fmt.Sprintf("image %d", resolved.IdxImage)
		}
		runs = append(runs, r)
	}

	if !quiet {
		info, _ := st.Info()
		first, _ := chain.Image(0)
		d := first.Geometry().Dims()
		fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s on %d image(s) of %dx%dx%d = %d spins",
			kind, info.NOI, d[0], d[1], d[2], info.NOS)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runs {
		r := r
		g.Go(func() error { return wait(gctx, r) })
	}
	if !quiet {
		go report(gctx, runs)
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return finish(cfg, chain, kind, runs)
}

// wait blocks until the method of r returns, stopping it when ctx ends first.
func wait(ctx context.Context, r *run) error {
	select {
	case <-r.method.Done():
		return nil
	case <-ctx.Done():
		r.method.Stop()
		<-r.method.Done()
		return ctx.Err()
	}
}

func report(ctx context.Context, runs []*run) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, r := range runs {
				s := r.method.Status()
				if !s.Phase.Live() {
					continue
				}
				start := s.Force
				if first, ok := r.history.First(); ok {
					start = first.Force
				}
				fmt.Println(viz.StatusLine(r.target, s), viz.ConvergenceBar(start, s.Force, r.threshold, 20))
			}
		}
	}
}

// threshold is the convergence force of kind as configured.
func threshold(cfg *config.Config, kind engine.Kind) float64 {
	switch kind {
	case engine.PathRelaxation:
		return cfg.GNEB.ForceConvergence
	case engine.ModeFollowing:
		return cfg.MMF.ForceConvergence
	}
	return cfg.LLG.ForceConvergence
}

func finish(cfg *config.Config, chain *data.Chain, kind engine.Kind, runs []*run) error {
	params := config.HamiltonianParams(chain)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	failed := 0
	for _, r := range runs {
		s := r.method.Status()
		samples := r.history.Samples()

		meta := storage.RunMetadata{
			Method:     string(kind),
			Solver:     s.Solver,
			ConfigFile: configFile,
			Preset:     preset,
			Seed:       cfg.Chain.Seed,
			NOI:        chain.NOI(),
			NOS:        chain.NOS(),
			Image:      r.image,
			Phase:      s.Phase.String(),
			Iterations: s.Iteration,
			Force:      s.Force,
			Params:     params,
		}
		if len(samples) > 0 {
			meta.Energy = samples[len(samples)-1].Energy
		}
		if s.Err != nil {
			meta.Error = s.Err.Error()
			failed++
		}

		runID, err := st.Save(meta, samples)
		if err != nil {
			return err
		}

		fmt.Println(viz.StatusLine(r.target, s))
		if !quiet && len(samples) > 1 {
			forces, _ := viz.Values(samples, viz.SeriesForce)
			fmt.Printf("  %s  %s\n", viz.SparklineChart(forces, 40), viz.Subtle.Render(runID))
		} else {
			fmt.Printf("  %s\n", viz.Subtle.Render(runID))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d method(s) failed", failed, len(runs))
	}
	return nil
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
	fmt.Fprintln(w, "ID\tMETHOD\tSOLVER\tTIME\tIMAGE\tPHASE\tITER\tFORCE")

	for _, run := range runs {
		image := "chain"
		if run.Image >= 0 {
			image = fmt.Sprintf("%d", run.Image)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%.2e\n",
			run.ID,
			run.Method,
			run.Solver,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			image,
			run.Phase,
			run.Iterations,
			run.Force,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("method: %s/%s (%s)\n", meta.Method, meta.Solver, meta.Phase)
	fmt.Printf("samples: %d\n\n", len(samples))

	graph, err := viz.PlotHistory(samples, viz.Series(series), 80, 15)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}
