// Package stageexec runs one pipeline stage for one format with consistent
// lifecycle logging.
package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reelbuild/internal/logging"
	"reelbuild/internal/services"
	"reelbuild/internal/stage"
)

// Options controls a single stage execution.
type Options struct {
	Logger *slog.Logger
	Stage  stage.Name
	// Needed is the planned decision; unneeded stages are logged and skipped.
	Needed bool
	// Reason explains the decision in logs.
	Reason  string
	Execute func(context.Context) error
}

// Run executes a stage when needed and reports its outcome. The context
// handed to Execute carries the stage name for downstream logging.
func Run(ctx context.Context, opts Options) (stage.Outcome, error) {
	stageCtx := services.WithStage(ctx, string(opts.Stage))
	stageLogger := logging.WithContext(stageCtx, opts.Logger)

	if !opts.Needed {
		stageLogger.Info(
			"stage skipped",
			logging.String(logging.FieldEventType, "stage_skip"),
			logging.String("reason", strings.TrimSpace(opts.Reason)),
		)
		return stage.OutcomeSkipped, nil
	}
	if opts.Execute == nil {
		return stage.OutcomeFailed, fmt.Errorf("stage handler unavailable: %s", opts.Stage)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("reason", strings.TrimSpace(opts.Reason)),
	)
	started := time.Now()

	if err := opts.Execute(stageCtx); err != nil {
		hint := services.Hint(err)
		if hint == "" {
			hint = "check logs for details"
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String(logging.FieldErrorHint, hint),
			logging.String("error_kind", services.Kind(err)),
			logging.Elapsed(time.Since(started)),
			logging.Error(err),
		)
		return stage.OutcomeFailed, err
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Elapsed(time.Since(started)),
	)
	return stage.OutcomeExecuted, nil
}
