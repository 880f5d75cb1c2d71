package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/buildlock"
	"reelbuild/internal/encoding"
	"reelbuild/internal/formats"
	"reelbuild/internal/history"
	"reelbuild/internal/logging"
	"reelbuild/internal/manifest"
	"reelbuild/internal/preflight"
	"reelbuild/internal/render"
	"reelbuild/internal/services"
	"reelbuild/internal/stage"
	"reelbuild/internal/stageexec"
	"reelbuild/internal/staging"
	"reelbuild/internal/staleness"
)

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// ProgressFunc reports frame capture progress for a format.
type ProgressFunc func(format string, done, total int)

// Runner wires the capabilities a build needs.
type Runner struct {
	Registry  *formats.Registry
	Layout    artifacts.Layout
	Renderer  render.Renderer
	Encoder   encoding.Encoder
	History   Recorder
	Logger    *slog.Logger
	AudioPath string
	// LockPath enables the build lock when set.
	LockPath string
	Oracle   artifacts.Oracle
	Progress ProgressFunc
	// Invocation is the raw argv recorded in the manifest.
	Invocation []string
	Now        func() time.Time
	NewRunID   func() string
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) newRunID() string {
	if r.NewRunID != nil {
		return r.NewRunID()
	}
	return uuid.NewString()
}

func (r *Runner) oracle() artifacts.Oracle {
	if r.Oracle != nil {
		return r.Oracle
	}
	return artifacts.FS{}
}

func (r *Runner) resolve(flags Flags) ([]formats.Format, error) {
	if r.Registry == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "format registry not configured", nil)
	}
	return r.Registry.ResolveSelection(flags.Formats)
}

// Plan resolves the selection and computes staleness without side effects.
func (r *Runner) Plan(flags Flags) (staleness.Plan, error) {
	selected, err := r.resolve(flags)
	if err != nil {
		return staleness.Plan{}, err
	}
	return staleness.Resolve(selected, flags.StalenessOptions(), r.Layout, r.oracle()), nil
}

// Run executes one build. The returned summary is non-nil even on failure.
func (r *Runner) Run(ctx context.Context, flags Flags) (summary *Summary, err error) {
	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "pipeline"))
	summary = &Summary{RunID: runID, StartedAt: r.now(), Formats: []FormatResult{}}

	defer func() {
		r.finish(ctx, logger, flags, summary, err)
	}()

	if err := flags.Validate(); err != nil {
		return summary, err
	}
	selected, err := r.resolve(flags)
	if err != nil {
		return summary, err
	}
	for _, f := range selected {
		summary.Formats = append(summary.Formats, newFormatResult(f.Key))
	}

	if r.LockPath != "" {
		lock, err := buildlock.Acquire(r.LockPath)
		if err != nil {
			return summary, err
		}
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				logger.Warn("failed to release build lock", logging.Error(releaseErr))
			}
		}()
	}

	if flags.Clean {
		if err := staging.Reset(r.Layout, logger); err != nil {
			return summary, fmt.Errorf("clean outputs: %w", err)
		}
		logger.Info("outputs cleaned",
			logging.String(logging.FieldEventType, "clean"),
			logging.String("dist", r.Layout.DistDir()),
			logging.String("tmp", r.Layout.TmpDir()),
		)
	}

	plan := staleness.Resolve(selected, flags.StalenessOptions(), r.Layout, r.oracle())
	logger.Info("build planned",
		logging.String(logging.FieldEventType, "plan"),
		logging.Int("formats", len(plan.Formats)),
		logging.Bool("browser_needed", plan.BrowserNeeded),
		logging.Bool("video_needed", plan.VideoNeeded),
		logging.Bool("audio_needed", plan.AudioNeeded),
	)

	target := preflight.Target{RootDir: r.Layout.Root, AudioPath: r.AudioPath, Encoder: r.Encoder}
	if err := preflight.Run(ctx, target, preflight.Needs{Audio: plan.AudioNeeded, Encoder: plan.VideoNeeded}); err != nil {
		return summary, err
	}

	var session render.Session
	release := func() {}
	if plan.BrowserNeeded {
		session, err = r.acquire(ctx)
		if err != nil {
			return summary, err
		}
		var once sync.Once
		release = func() {
			once.Do(func() {
				if closeErr := session.Close(); closeErr != nil {
					logger.Warn("failed to release renderer", logging.Error(closeErr))
				}
			})
		}
		defer release()
	}

	for i, fp := range plan.Formats {
		if err := r.runFormat(ctx, session, fp, flags, &summary.Formats[i]); err != nil {
			return summary, err
		}
	}
	release()

	if !flags.KeepFrames {
		pruned := staging.PruneFrames(r.Layout, formatKeys(selected), logger)
		for _, dir := range pruned.Removed {
			summary.PrunedFrames = append(summary.PrunedFrames, r.Layout.Rel(dir))
		}
	}

	doc := manifest.Build(manifest.Input{
		RunID:       runID,
		GeneratedAt: r.now(),
		Invocation:  r.Invocation,
		Flags:       flags.Snapshot(),
		Formats:     selected,
		Layout:      r.Layout,
		Oracle:      r.oracle(),
		Stages:      stageOutcomes(summary),
	})
	manifestPath := r.Layout.ManifestPath()
	if err := manifest.Write(manifestPath, doc); err != nil {
		return summary, err
	}
	summary.ManifestPath = r.Layout.Rel(manifestPath)
	return summary, nil
}

func (r *Runner) acquire(ctx context.Context) (render.Session, error) {
	if r.Renderer == nil {
		return nil, services.Wrap(services.ErrPrecondition, "", "", "renderer unavailable", errors.New("no renderer configured"))
	}
	session, err := r.Renderer.Acquire(ctx)
	if err != nil {
		wrapped := services.Wrap(services.ErrPrecondition, "", "", "renderer unavailable", err)
		if services.Hint(err) == "" {
			return nil, services.WithHint(wrapped, "use --skip-render --skip-still to build without a browser")
		}
		return nil, services.WithHint(wrapped, services.Hint(err))
	}
	return session, nil
}

func (r *Runner) runFormat(ctx context.Context, session render.Session, fp staleness.FormatPlan, flags Flags, result *FormatResult) error {
	ctx = services.WithFormat(ctx, fp.Format.Key)
	stageLogger := logging.NewComponentLogger(r.Logger, "pipeline")
	for _, name := range stage.Order {
		decision := fp.Decision(name)
		result.State = name.Running()
		outcome, err := stageexec.Run(ctx, stageexec.Options{
			Logger: stageLogger,
			Stage:  name,
			Needed: decision.Needed,
			Reason: string(decision.Reason),
			Execute: func(stageCtx context.Context) error {
				return r.execute(stageCtx, session, name, fp.Format, flags)
			},
		})
		result.Stages[name] = outcome
		if err != nil {
			result.State = stage.StateFailed
			result.FailedStage = name
			result.Cause = err.Error()
			return &StageError{Format: fp.Format.Key, Stage: name, Err: err}
		}
	}
	result.State = stage.StateDone
	return nil
}

func (r *Runner) execute(ctx context.Context, session render.Session, name stage.Name, f formats.Format, flags Flags) error {
	switch name {
	case stage.Render:
		return r.render(ctx, session, f)
	case stage.Encode:
		return r.encode(ctx, f, flags)
	case stage.Mux:
		return r.mux(ctx, f, flags)
	case stage.Still:
		return r.still(ctx, session, f)
	default:
		return fmt.Errorf("unknown stage %q", name)
	}
}

func (r *Runner) render(ctx context.Context, session render.Session, f formats.Format) error {
	if session == nil {
		return errors.New("renderer session not acquired")
	}
	dir := r.Layout.FramesDir(f.Key)
	// Stale frames from a longer sequence would leak into the encode.
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear frames directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create frames directory: %w", err)
	}
	var progress render.Progress
	if r.Progress != nil {
		progress = func(done, total int) { r.Progress(f.Key, done, total) }
	}
	return session.CaptureFrames(ctx, f, dir, progress)
}

func (r *Runner) encode(ctx context.Context, f formats.Format, flags Flags) error {
	if err := artifacts.VerifyFrameSequence(r.oracle(), r.Layout, f.Key, f.FrameCount()); err != nil {
		return services.WithHint(
			services.Wrap(services.ErrDependency, "", "", "frame sequence incomplete", err),
			fmt.Sprintf("re-run without --skip-render, or remove %s", r.Layout.Rel(r.Layout.FormatTmpDir(f.Key))),
		)
	}
	if r.Encoder == nil {
		return errors.New("encoder not configured")
	}
	return r.Encoder.EncodeSilent(ctx, f, r.Layout.FramesDir(f.Key), r.Layout.SilentVideo(f.Key), flags.Quality)
}

func (r *Runner) mux(ctx context.Context, f formats.Format, flags Flags) error {
	silent := r.Layout.SilentVideo(f.Key)
	if !r.oracle().Exists(silent) {
		return services.WithHint(
			services.Wrap(services.ErrDependency, "", "", "silent video missing: "+r.Layout.Rel(silent), nil),
			"re-run without --skip-encode",
		)
	}
	if r.Encoder == nil {
		return errors.New("encoder not configured")
	}
	return r.Encoder.MuxAudio(ctx, silent, r.AudioPath, r.Layout.FinalVideo(f.Key), flags.AudioBitrate)
}

func (r *Runner) still(ctx context.Context, session render.Session, f formats.Format) error {
	if session == nil {
		return errors.New("renderer session not acquired")
	}
	if err := os.MkdirAll(r.Layout.FormatDistDir(f.Key), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return session.CaptureStill(ctx, f, r.Layout.Still(f.Key))
}

// finish stamps the summary and records the run. History failures are logged
// and never change the run's result.
func (r *Runner) finish(ctx context.Context, logger *slog.Logger, flags Flags, summary *Summary, runErr error) {
	summary.FinishedAt = r.now()
	summary.Succeeded = runErr == nil
	if runErr != nil {
		summary.Error = runErr.Error()
		summary.ErrorKind = services.Kind(runErr)
		summary.Hint = services.Hint(runErr)
		logging.ErrorWithContext(logger, "build failed", "build_failure",
			logging.String(logging.FieldErrorHint, hintOrDefault(summary.Hint)),
			logging.String("error_kind", summary.ErrorKind),
			logging.Elapsed(summary.Duration()),
			logging.Error(runErr),
		)
	} else {
		logger.Info("build completed",
			logging.String(logging.FieldEventType, "build_complete"),
			logging.Int("executed", summary.Count(stage.OutcomeExecuted)),
			logging.Int("skipped", summary.Count(stage.OutcomeSkipped)),
			logging.Elapsed(summary.Duration()),
			logging.String("manifest", summary.ManifestPath),
		)
	}

	if r.History == nil {
		return
	}
	if err := r.History.Record(context.WithoutCancel(ctx), historyRun(flags, summary)); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run missing from reelbuild history"),
		)
	}
}

func historyRun(flags Flags, summary *Summary) history.Run {
	status := history.StatusSucceeded
	if !summary.Succeeded {
		status = history.StatusFailed
	}
	keys := make([]string, 0, len(summary.Formats))
	var stages []history.StageRecord
	for _, res := range summary.Formats {
		keys = append(keys, res.Format)
		for _, n := range stage.Order {
			stages = append(stages, history.StageRecord{Format: res.Format, Stage: string(n), Outcome: string(res.Outcome(n))})
		}
	}
	if len(keys) == 0 {
		keys = append(keys, flags.Formats...)
	}
	flagsJSON, err := json.Marshal(flags.Snapshot())
	if err != nil {
		flagsJSON = []byte("{}")
	}
	return history.Run{
		ID:           summary.RunID,
		StartedAt:    summary.StartedAt,
		FinishedAt:   summary.FinishedAt,
		Status:       status,
		Formats:      keys,
		FlagsJSON:    string(flagsJSON),
		ErrorKind:    summary.ErrorKind,
		ErrorMessage: summary.Error,
		Stages:       stages,
	}
}

func stageOutcomes(summary *Summary) map[string]map[string]string {
	out := make(map[string]map[string]string, len(summary.Formats))
	for _, res := range summary.Formats {
		stages := make(map[string]string, len(stage.Order))
		for _, n := range stage.Order {
			stages[string(n)] = string(res.Outcome(n))
		}
		out[res.Format] = stages
	}
	return out
}

func formatKeys(list []formats.Format) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Key)
	}
	return out
}

func hintOrDefault(hint string) string {
	if hint == "" {
		return "check logs for details"
	}
	return hint
}
