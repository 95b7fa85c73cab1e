// Package driver implements the Tree Driver of spec §4.9: per-input-file
// orchestration of tree loading, traversal, physics evolution, and
// snapshot recording, with a file-level worker pool and cooperative
// cancellation (spec §5).
package driver

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cosmotree/sage/internal/config"
	"github.com/cosmotree/sage/internal/eventbus"
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/ioformat/genesis"
	"github.com/cosmotree/sage/internal/ioformat/lhalo"
	"github.com/cosmotree/sage/internal/physics"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
	"github.com/cosmotree/sage/internal/walker"
)

// Event is the progress notification emitted after each tree and each
// file completes (SPEC_FULL.md §4.9's "ProgressHook"), also published on
// internal/eventbus under the topics below for internal/monitor to
// relay over HTTP/WebSocket.
type Event struct {
	Topic    string
	FileNr   int32
	TreeIdx  int32
	NumTrees int32
	Galaxies int
}

// Event topics published on the driver's EventBus.
const (
	TopicTreeCompleted = "tree.completed"
	TopicFileCompleted = "file.completed"
)

// Config holds everything one run needs beyond the parsed RunConfig:
// the precomputed Units/SnapshotTimes, the shared read-only Pipeline,
// and the operational knobs (worker count, progress/cancel hooks) spec
// §5 and §4.9 describe.
type Config struct {
	Run          config.RunConfig
	Units        units.Units
	Times        units.SnapshotTimes
	Pipeline     *physics.Pipeline
	Logger       *zap.Logger
	EventBus     eventbus.EventBus
	MaxWorkers   int // <= 0 -> no limit; cmd/sage passes GOMAXPROCS for --max-workers 0
	MaxWorking   int // working-galaxy hard cap per tree; 0 -> unbounded
	ProgressHook func(Event)
	CancelCheck  func() bool
	Overwrite    bool
}

// Summary accumulates run-wide totals for the end-of-run report
// (internal/cliutil.RunSummary).
type Summary struct {
	FilesProcessed int
	TreesProcessed int
	TotalGalaxies  int64
}

// Driver runs one complete batch over [FirstFile, LastFile].
type Driver struct {
	cfg         Config
	outputSnaps []int32
}

// New constructs a Driver, resolving the requested output snapshots
// from NumOutputs (spec §6's "-1 for all").
func New(cfg Config) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Driver{
		cfg:         cfg,
		outputSnaps: ResolveOutputSnapshots(cfg.Times.NumSnapshots(), cfg.Run.NumOutputs),
	}
}

// Run processes every file in [FirstFile, LastFile], up to MaxWorkers
// concurrently (spec §5's "distinct files may be processed by distinct
// workers"). A fatal-scope error (ConfigError, MissingDataFile) from any
// file cancels the whole run; per-file-scope errors (FormatError) abort
// only that file and are logged, letting siblings finish.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	if d.cfg.MaxWorkers > 0 {
		g.SetLimit(d.cfg.MaxWorkers)
	}

	var acc accumulator

	for fileNr := d.cfg.Run.FirstFile; fileNr <= d.cfg.Run.LastFile; fileNr++ {
		fileNr := fileNr
		g.Go(func() error {
			fs, err := d.processFile(gctx, int32(fileNr))
			acc.add(fs)
			if err == nil {
				return nil
			}
			if faults.ScopeOf(err) == faults.ScopeFatal {
				return fmt.Errorf("file %d: %w", fileNr, err)
			}
			d.cfg.Logger.Error("file aborted", zap.Int("file", fileNr), zap.Error(err))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return acc.summary(), err
	}
	return acc.summary(), nil
}

type accumulator struct {
	mu  sync.Mutex
	sum Summary
}

func (a *accumulator) add(fs fileSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sum.FilesProcessed++
	a.sum.TreesProcessed += fs.trees
	a.sum.TotalGalaxies += fs.galaxies
}

func (a *accumulator) summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sum
}

type fileSummary struct {
	trees    int
	galaxies int64
}

// openTreeReader dispatches on TreeType to the lhalo or genesis reader,
// both satisfying genesis.TreeFileReader.
func (d *Driver) openTreeReader(path string) (genesis.TreeFileReader, error) {
	switch d.cfg.Run.TreeType {
	case config.TreeTypeLHaloBinary:
		return lhalo.Open(path)
	case config.TreeTypeGenesisLHaloHDF5:
		return genesis.NewReader(path)
	default:
		return nil, &faults.ConfigError{Key: "TreeType", Reason: "unsupported tree type: " + string(d.cfg.Run.TreeType)}
	}
}

// processFile implements one worker's loop (spec §4.9 steps 1-4).
func (d *Driver) processFile(ctx context.Context, fileNr int32) (fileSummary, error) {
	path := config.TreeFilePath(d.cfg.Run, int(fileNr))
	reader, err := d.openTreeReader(path)
	if err != nil {
		return fileSummary{}, err
	}
	defer reader.Close()

	ntrees := reader.NumTrees()

	writers := make(map[int32]*outputWriter, len(d.outputSnaps))
	for _, snap := range d.outputSnaps {
		redshift := d.cfg.Times.Redshift(snap)
		outPath := fmt.Sprintf("%s/%s_z%.3f_%d", d.cfg.Run.OutputDir, d.cfg.Run.FilePrefix, redshift, fileNr)
		w, err := newOutputWriter(outPath, ntrees, d.cfg.Overwrite)
		if err != nil {
			closeWriters(writers)
			return fileSummary{}, err
		}
		writers[snap] = w
	}

	fs, err := d.walkTrees(ctx, fileNr, reader, writers)

	for _, w := range writers {
		if ferr := w.finalize(); ferr != nil && err == nil {
			err = ferr
		}
	}

	if d.cfg.EventBus != nil {
		_ = d.cfg.EventBus.Publish(ctx, TopicFileCompleted, Event{Topic: TopicFileCompleted, FileNr: fileNr, NumTrees: ntrees, Galaxies: int(fs.galaxies)})
	}
	if d.cfg.ProgressHook != nil {
		d.cfg.ProgressHook(Event{Topic: TopicFileCompleted, FileNr: fileNr, NumTrees: ntrees, Galaxies: int(fs.galaxies)})
	}

	return fs, err
}

func closeWriters(writers map[int32]*outputWriter) {
	for _, w := range writers {
		_ = w.abort()
	}
}

// walkTrees runs every tree in the file (spec §4.9 step 3), skipping a
// tree on ScopePerTree errors and aborting the whole file on
// ScopePerFile/ScopeFatal ones, per the Recovery Policy in spec §7.
func (d *Driver) walkTrees(ctx context.Context, fileNr int32, reader genesis.TreeFileReader, writers map[int32]*outputWriter) (fileSummary, error) {
	var fs fileSummary
	ntrees := reader.NumTrees()

	for treeIdx := int32(0); treeIdx < ntrees; treeIdx++ {
		select {
		case <-ctx.Done():
			return fs, ctx.Err()
		default:
		}
		if d.cfg.CancelCheck != nil && d.cfg.CancelCheck() {
			d.cfg.Logger.Warn("cancellation requested, flushing partial output", zap.Int32("file", fileNr), zap.Int32("tree", treeIdx))
			return fs, nil
		}

		galaxies, err := d.processTree(fileNr, treeIdx, reader, writers)
		if err != nil {
			scope := faults.ScopeOf(err)
			if scope == faults.ScopePerTree {
				d.cfg.Logger.Warn("tree skipped", zap.Int32("file", fileNr), zap.Int32("tree", treeIdx), zap.Error(err))
				continue
			}
			return fs, err
		}

		fs.trees++
		fs.galaxies += int64(galaxies)

		if d.cfg.EventBus != nil {
			_ = d.cfg.EventBus.Publish(ctx, TopicTreeCompleted, Event{Topic: TopicTreeCompleted, FileNr: fileNr, TreeIdx: treeIdx, NumTrees: ntrees, Galaxies: galaxies})
		}
		if d.cfg.ProgressHook != nil {
			d.cfg.ProgressHook(Event{Topic: TopicTreeCompleted, FileNr: fileNr, TreeIdx: treeIdx, NumTrees: ntrees, Galaxies: galaxies})
		}
	}

	return fs, nil
}

// processTree loads one tree, walks it, and records its galaxies into
// every requested snapshot's writer. The Store (and everything it
// holds) is released once this call returns, per spec §5's "all
// per-tree allocations released before the next tree is loaded".
func (d *Driver) processTree(fileNr, treeIdx int32, reader genesis.TreeFileReader, writers map[int32]*outputWriter) (int, error) {
	halos, err := reader.ReadTree(treeIdx)
	if err != nil {
		return 0, err
	}

	store := treedata.NewStore(halos, fileNr, d.cfg.MaxWorking)
	store.ResetAux()

	w := walker.New(store, d.cfg.Units, d.cfg.Times, d.cfg.Pipeline, fileNr, treeIdx)
	if err := w.Run(); err != nil {
		return 0, err
	}

	return recordTree(store, d.cfg.Units, d.cfg.Times, treeIdx, fileNr, writers)
}
