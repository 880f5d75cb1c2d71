package stageexec

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"reelbuild/internal/logging"
	"reelbuild/internal/services"
	"reelbuild/internal/stage"
)

func newBufferLogger(t *testing.T) (*bytes.Buffer, *logging.Options) {
	t.Helper()
	buf := &bytes.Buffer{}
	return buf, &logging.Options{Level: "debug", Format: "json", Writer: buf}
}

func TestRunSkipsUnneededStage(t *testing.T) {
	buf, opts := newBufferLogger(t)
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	called := false
	outcome, err := Run(context.Background(), Options{
		Logger:  logger,
		Stage:   stage.Mux,
		Reason:  "up_to_date",
		Execute: func(context.Context) error { called = true; return nil },
	})
	if err != nil || outcome != stage.OutcomeSkipped || called {
		t.Fatalf("expected skip without execution, got %s err=%v called=%v", outcome, err, called)
	}
	if !strings.Contains(buf.String(), `"event_type":"stage_skip"`) || !strings.Contains(buf.String(), `"stage":"mux"`) {
		t.Fatalf("expected skip log with stage field, got %s", buf.String())
	}
}

func TestRunExecutesWithStageContext(t *testing.T) {
	buf, opts := newBufferLogger(t)
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	ctx := services.WithFormat(context.Background(), "9x16")
	var seenStage string
	outcome, err := Run(ctx, Options{
		Logger: logger,
		Stage:  stage.Render,
		Needed: true,
		Execute: func(ctx context.Context) error {
			seenStage, _ = services.StageFromContext(ctx)
			return nil
		},
	})
	if err != nil || outcome != stage.OutcomeExecuted {
		t.Fatalf("expected executed, got %s err=%v", outcome, err)
	}
	if seenStage != "render" {
		t.Fatalf("expected stage in context, got %q", seenStage)
	}
	out := buf.String()
	for _, want := range []string{`"stage_start"`, `"stage_complete"`, `"format":"9x16"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in logs: %s", want, out)
		}
	}
}

func TestRunReportsFailure(t *testing.T) {
	buf, opts := newBufferLogger(t)
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cause := services.WithHint(services.Wrap(services.ErrDependency, "", "", "silent video missing", nil), "re-run without --skip-encode")
	outcome, err := Run(context.Background(), Options{
		Logger:  logger,
		Stage:   stage.Mux,
		Needed:  true,
		Execute: func(context.Context) error { return cause },
	})
	if outcome != stage.OutcomeFailed || !errors.Is(err, services.ErrDependency) {
		t.Fatalf("expected failed dependency outcome, got %s err=%v", outcome, err)
	}
	out := buf.String()
	if !strings.Contains(out, `"stage_failure"`) || !strings.Contains(out, "re-run without --skip-encode") {
		t.Fatalf("expected failure log with hint, got %s", out)
	}
}

func TestRunMissingHandler(t *testing.T) {
	outcome, err := Run(context.Background(), Options{Stage: stage.Encode, Needed: true})
	if err == nil || outcome != stage.OutcomeFailed {
		t.Fatalf("expected failure, got %s err=%v", outcome, err)
	}
}
