// Command sage runs the semi-analytic galaxy evolution engine of spec
// §1: given a parameter file, it traverses every merger tree in
// [FirstFile, LastFile], evolves each one's baryonic physics substep by
// substep, and records galaxy snapshots per spec §6's binary layout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cosmotree/sage/internal/cliutil"
	"github.com/cosmotree/sage/internal/config"
	"github.com/cosmotree/sage/internal/driver"
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/logging"
	"github.com/cosmotree/sage/internal/physics"
	"github.com/cosmotree/sage/internal/units"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

type runFlags struct {
	verbose     bool
	quiet       bool
	overwrite   bool
	monitorAddr string
	maxWorkers  int
	coolingDir  string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sage:", err)
		os.Exit(faults.ExitCode(rootCause(err)))
	}
}

// rootCause unwraps to the first typed *faults.* error in the chain, the
// one faults.ExitCode classifies (or to the innermost error when the
// chain holds none); cobra and fmt.Errorf("%w: ...") wrapping would
// otherwise hide it. Unwrapping stops there because a *faults.* error
// such as MissingDataFile itself wraps an untyped cause.
func rootCause(err error) error {
	for {
		switch err.(type) {
		case *faults.ConfigError, *faults.MissingDataFile, *faults.FormatError,
			*faults.InvariantViolation, *faults.NumericFault, *faults.ResourceExhaustion:
			return err
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := unwrapper.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}

func rootCmd() *cobra.Command {
	var flags runFlags

	root := &cobra.Command{
		Use:   "sage <parameter-file>",
		Short: "Semi-analytic galaxy evolution engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSage(cmd.Context(), args[0], flags)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress all but error-level logging")
	root.Flags().BoolVar(&flags.overwrite, "overwrite", false, "overwrite existing output files instead of failing")
	root.Flags().StringVar(&flags.monitorAddr, "monitor-addr", "", "address to serve /healthz, /progress, /ws on (e.g. :9090); omit to disable")
	root.Flags().IntVar(&flags.maxWorkers, "max-workers", 0, "maximum concurrent tree-file workers (0 = GOMAXPROCS)")
	root.Flags().StringVar(&flags.coolingDir, "cooling-dir", "", "directory holding the 8 cooling-function row files (required)")
	root.MarkFlagRequired("cooling-dir")

	root.AddCommand(validateConfigCmd(), versionCmd())
	return root
}

func newLogger(flags runFlags) *zap.Logger {
	switch {
	case flags.quiet:
		return logging.Quiet()
	case flags.verbose:
		return logging.Verbose()
	default:
		return logging.New(logging.LevelInfo)
	}
}

func runSage(ctx context.Context, paramFile string, flags runFlags) error {
	start := time.Now()
	logger := newLogger(flags)
	defer logger.Sync()

	logger.Info("sage starting", zap.String("version", version), zap.String("cpu", cliutil.CPUFeatureLine()))

	fs := afero.NewOsFs()
	cfg, scaleFactors, err := config.Load(fs, paramFile)
	if err != nil {
		return err
	}

	u := units.NewUnits(cfg.Cosmology, cfg.System, cfg.SN)
	times := units.NewSnapshotTimes(u, scaleFactors)

	table, err := loadCoolingTable(flags.coolingDir)
	if err != nil {
		return err
	}
	pipeline := physics.New(cfg.Physics, table)

	maxWorkers := flags.maxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}

	watcher := driver.NewCPUTimeWatcher()
	defer watcher.Stop()
	if limit, err := driver.CPULimitSeconds(); err == nil && limit > 0 {
		logger.Debug("rlimit cpu detected", zap.Uint64("seconds", limit))
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newRunService(logger, flags.monitorAddr)
	if err := svc.Initialize(runCtx); err != nil {
		return err
	}
	if err := svc.Start(runCtx); err != nil {
		return err
	}
	defer svc.Stop(context.Background())

	d := driver.New(driver.Config{
		Run:         cfg,
		Units:       u,
		Times:       times,
		Pipeline:    pipeline,
		Logger:      logger,
		EventBus:    svc.bus,
		MaxWorkers:  maxWorkers,
		CancelCheck: watcher.CancelCheck,
		Overwrite:   flags.overwrite,
	})

	summary, err := d.Run(runCtx)
	if err != nil {
		svc.SetUnhealthy(err.Error())
		logger.Error("run failed", zap.Error(err))
		return err
	}

	svc.SetHealthy("run complete")
	cliutil.WriteSummary(os.Stdout, cliutil.RunSummary{
		FilesProcessed: summary.FilesProcessed,
		TreesProcessed: summary.TreesProcessed,
		TotalGalaxies:  summary.TotalGalaxies,
		WallTime:       time.Since(start),
	})
	return nil
}
