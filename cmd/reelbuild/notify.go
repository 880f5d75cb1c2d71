package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"reelbuild/internal/logging"
	"reelbuild/internal/notifications"
	"reelbuild/internal/pipeline"
	"reelbuild/internal/stage"
)

// buildEvent maps a finished run onto a notification event and payload.
func buildEvent(summary *pipeline.Summary, runErr error) (notifications.Event, notifications.Payload) {
	if summary == nil {
		return notifications.EventBuildFailed, notifications.Payload{"error": errorText(runErr)}
	}
	if runErr == nil && summary.Succeeded {
		keys := make([]string, 0, len(summary.Formats))
		for _, result := range summary.Formats {
			keys = append(keys, result.Format)
		}
		return notifications.EventBuildSucceeded, notifications.Payload{
			"formats":  strings.Join(keys, ", "),
			"duration": formatDuration(summary.Duration()),
			"executed": summary.Count(stage.OutcomeExecuted),
			"skipped":  summary.Count(stage.OutcomeSkipped),
		}
	}

	payload := notifications.Payload{
		"error": errorText(runErr),
		"hint":  summary.Hint,
	}
	if summary.Error != "" {
		payload["error"] = summary.Error
	}
	var stageErr *pipeline.StageError
	if errors.As(runErr, &stageErr) {
		payload["format"] = stageErr.Format
		payload["stage"] = string(stageErr.Stage)
		payload["error"] = errorText(stageErr.Err)
	}
	return notifications.EventBuildFailed, payload
}

func publishBuild(ctx context.Context, svc notifications.Service, logger *slog.Logger, summary *pipeline.Summary, runErr error) {
	event, payload := buildEvent(summary, runErr)
	if err := svc.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(logger, "build notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the build result is unaffected"),
		)
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications are disabled (set notifications.ntfy_topic)")
				return nil
			}
			svc := notifications.NewService(cfg)
			if err := svc.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
