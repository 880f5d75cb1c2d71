package services_test

import (
	"context"
	"testing"

	"reelbuild/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithFormat(ctx, "9x16")
	ctx = services.WithStage(ctx, "encode")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if key, ok := services.FormatFromContext(ctx); !ok || key != "9x16" {
		t.Fatalf("unexpected format: %v %v", key, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "encode" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithFormat(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.FormatFromContext(ctx); ok {
		t.Fatal("expected no format value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
