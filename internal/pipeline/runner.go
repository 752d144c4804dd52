// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/database"
	"github.com/tomtom215/steamlens/internal/export"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/metrics"
	"github.com/tomtom215/steamlens/internal/models"
	"github.com/tomtom215/steamlens/internal/runlog"
)

// Stage names, in execution order.
const (
	StageIngest    = "ingest"
	StageRawSample = "raw_sample"
	StageQueries   = "queries"
	StageSamples   = "samples"
	StageExport    = "export"
)

// Stages lists the stage names in execution order.
func Stages() []string {
	return []string{StageIngest, StageRawSample, StageQueries, StageSamples, StageExport}
}

// Engine is the analytical store the pipeline drives. *database.DB
// implements it.
type Engine interface {
	export.Source
	EnsureReviews(ctx context.Context, path string, maxLineSize int, reload bool) (int64, bool, error)
	BuildRawSample(ctx context.Context, csvPath string, maxLineSize int) (int64, error)
	RunQuerySuite(ctx context.Context, params database.QueryParams) ([]database.TableResult, error)
	SampleQueryTables(ctx context.Context) ([]database.TableResult, error)
	Path() string
}

// Pruner trims the run history. *runlog.Store implements it.
type Pruner interface {
	Prune(ctx context.Context, keep int) (int, error)
}

// Runner executes pipeline runs. It is safe to share, but only one run may
// be in progress at a time.
type Runner struct {
	cfg      *config.Config
	engine   Engine
	recorder runlog.Recorder

	mu      sync.Mutex
	running bool
	now     func() time.Time
}

// NewRunner creates a runner. recorder may be nil to skip the run log.
func NewRunner(cfg *config.Config, engine Engine, recorder runlog.Recorder) *Runner {
	return &Runner{
		cfg:      cfg,
		engine:   engine,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run executes every stage and returns the finished run record. The error
// is non-nil when a stage aborted the run; export failures only set the
// record status to partial.
func (r *Runner) Run(ctx context.Context) (*models.RunRecord, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, errors.New("pipeline run already in progress")
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	run := &models.RunRecord{
		ID:         uuid.New().String(),
		StartedAt:  r.now().UTC(),
		Status:     models.RunStatusRunning,
		CSVPath:    r.cfg.Pipeline.CSVPath,
		DuckDBPath: r.engine.Path(),
		SQLitePath: r.cfg.Export.SQLitePath,
	}
	ctx = logging.ContextWithRunID(ctx, run.ID)
	log := logging.Ctx(ctx)
	log.Info().
		Str("csv", run.CSVPath).
		Str("duckdb", run.DuckDBPath).
		Str("sqlite", run.SQLitePath).
		Msg("Pipeline run started")
	r.save(ctx, run)

	runErr := r.execute(ctx, run)

	run.FinishedAt = r.now().UTC()
	switch {
	case runErr != nil:
		run.Status = models.RunStatusFailed
		run.Error = runErr.Error()
	case run.Status == models.RunStatusRunning:
		run.Status = models.RunStatusSucceeded
	}
	metrics.RecordRun(run.Status, run.FinishedAt, run.Status == models.RunStatusSucceeded)
	r.save(ctx, run)
	r.prune(ctx)
	r.writeTextfile(ctx)

	event := log.Info()
	if runErr != nil {
		event = log.Error().Err(runErr).Bool("fatal", database.IsFatal(runErr))
	}
	event.Str("status", run.Status).Dur("duration", run.Duration()).Msg("Pipeline run finished")

	return run, runErr
}

// execute runs the stages in order, stopping at the first aborting error.
func (r *Runner) execute(ctx context.Context, run *models.RunRecord) error {
	stages := []struct {
		name string
		fn   func(context.Context, *models.StageResult) error
	}{
		{StageIngest, r.ingest},
		{StageRawSample, r.rawSample},
		{StageQueries, r.queries},
		{StageSamples, r.samples},
		{StageExport, r.exportStage(run)},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runStage(ctx, run, st.name, st.fn); err != nil {
			return fmt.Errorf("stage %s: %w", st.name, err)
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, run *models.RunRecord, name string, fn func(context.Context, *models.StageResult) error) error {
	result := models.StageResult{Name: name, StartedAt: r.now().UTC(), Rows: map[string]int64{}}
	start := time.Now()
	logging.Ctx(ctx).Info().Str("stage", name).Msg("Stage started")

	err := fn(ctx, &result)

	elapsed := time.Since(start)
	result.DurationMS = elapsed.Milliseconds()
	if err != nil {
		result.Error = err.Error()
	}
	for table, rows := range result.Rows {
		metrics.SetTableRows(table, rows)
	}
	metrics.RecordStage(name, elapsed, err)
	run.Stages = append(run.Stages, result)
	r.save(ctx, run)

	if err == nil {
		logging.Ctx(ctx).Info().Str("stage", name).Dur("duration", elapsed).Bool("skipped", result.Skipped).Msg("Stage finished")
	}
	return err
}

func (r *Runner) ingest(ctx context.Context, res *models.StageResult) error {
	p := r.cfg.Pipeline
	rows, reused, err := r.engine.EnsureReviews(ctx, p.CSVPath, p.MaxLineSize, p.ReloadCSV)
	if err != nil {
		return err
	}
	res.Rows[database.ReviewsTable] = rows
	res.Skipped = reused
	return nil
}

func (r *Runner) rawSample(ctx context.Context, res *models.StageResult) error {
	p := r.cfg.Pipeline
	rows, err := r.engine.BuildRawSample(ctx, p.SampleCSVPath, p.MaxLineSize)
	if err != nil {
		return err
	}
	res.Rows[database.RawSampleTable] = rows
	return nil
}

func (r *Runner) queries(ctx context.Context, res *models.StageResult) error {
	results, err := r.engine.RunQuerySuite(ctx, database.QueryParamsFromConfig(r.cfg.Analytics))
	recordTables(res, results)
	return err
}

func (r *Runner) samples(ctx context.Context, res *models.StageResult) error {
	results, err := r.engine.SampleQueryTables(ctx)
	recordTables(res, results)
	return err
}

// exportStage copies the eleven sample tables. Only failing to open the
// SQLite file aborts; per-table failures mark the run partial.
func (r *Runner) exportStage(run *models.RunRecord) func(context.Context, *models.StageResult) error {
	return func(ctx context.Context, res *models.StageResult) error {
		exp, err := export.Open(r.cfg.Export.SQLitePath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := exp.Close(); closeErr != nil {
				logging.Ctx(ctx).Warn().Err(closeErr).Msg("Error closing SQLite export")
			}
		}()

		report := exp.ExportTables(ctx, r.engine, database.ExportTables())
		for table, rows := range report.Rows() {
			res.Rows[table] = rows
		}
		if exportErr := report.Err(); exportErr != nil {
			res.Error = exportErr.Error()
			run.Status = models.RunStatusPartial
			logging.Ctx(ctx).Warn().
				Strs("failed_tables", report.Failed()).
				Int("exported", report.Exported()).
				Msg("Export finished with failures; SQLite store may be incomplete")
			if errors.Is(exportErr, context.Canceled) || errors.Is(exportErr, context.DeadlineExceeded) {
				return exportErr
			}
		}
		return nil
	}
}

func recordTables(res *models.StageResult, results []database.TableResult) {
	for _, t := range results {
		res.Rows[t.Table] = t.Rows
	}
}

// save writes run to the run log. Run log failures never fail the run.
func (r *Runner) save(ctx context.Context, run *models.RunRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Save(context.WithoutCancel(ctx), run); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to save run record")
	}
}

func (r *Runner) prune(ctx context.Context) {
	p, ok := r.recorder.(Pruner)
	if !ok || r.cfg.RunLog.HistoryLimit <= 0 {
		return
	}
	removed, err := p.Prune(context.WithoutCancel(ctx), r.cfg.RunLog.HistoryLimit)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to prune run history")
		return
	}
	if removed > 0 {
		logging.Ctx(ctx).Debug().Int("removed", removed).Msg("Pruned run history")
	}
}

func (r *Runner) writeTextfile(ctx context.Context) {
	path := r.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to write metrics textfile")
	}
}
