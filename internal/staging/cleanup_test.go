package staging

import (
	"os"
	"path/filepath"
	"testing"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/logging"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestResetRemovesGeneratedTreesOnly(t *testing.T) {
	root := t.TempDir()
	layout := artifacts.NewLayout(root, "festival")
	touch(t, layout.FinalVideo("9x16"))
	touch(t, layout.ManifestPath())
	touch(t, layout.FramePath("9x16", 0))
	source := filepath.Join(root, "index.html")
	touch(t, source)

	if err := Reset(layout, logging.NewNop()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if exists(layout.DistDir()) || exists(layout.TmpDir()) {
		t.Fatal("expected dist and tmp to be removed")
	}
	if !exists(source) {
		t.Fatal("source assets must survive a reset")
	}
}

func TestResetMissingTreesIsNoop(t *testing.T) {
	layout := artifacts.NewLayout(t.TempDir(), "festival")
	if err := Reset(layout, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestPruneFramesRemovesOnlyGivenFormats(t *testing.T) {
	root := t.TempDir()
	layout := artifacts.NewLayout(root, "festival")
	touch(t, layout.FramePath("A", 0))
	touch(t, layout.FramePath("A", 1))
	touch(t, layout.FramePath("B", 0))
	touch(t, layout.SilentVideo("A"))

	result := PruneFrames(layout, []string{"A"}, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != layout.FramesDir("A") {
		t.Fatalf("unexpected removed list %v", result.Removed)
	}
	if exists(layout.FormatTmpDir("A")) {
		t.Fatal("expected empty tmp/A to be removed")
	}
	if !exists(layout.FramePath("B", 0)) {
		t.Fatal("frames for unselected formats must survive")
	}
	if !exists(layout.SilentVideo("A")) {
		t.Fatal("deliverables must survive pruning")
	}
}

func TestPruneFramesDropsEmptyTmp(t *testing.T) {
	layout := artifacts.NewLayout(t.TempDir(), "festival")
	touch(t, layout.FramePath("A", 0))

	PruneFrames(layout, []string{"A", "never-rendered"}, nil)
	if exists(layout.TmpDir()) {
		t.Fatal("expected empty tmp directory to be removed")
	}
}

func TestCleanResultErr(t *testing.T) {
	if (CleanResult{}).Err() != nil {
		t.Fatal("expected nil error for empty result")
	}
	r := CleanResult{Errors: []CleanupError{{Path: "/x", Error: os.ErrPermission}}}
	if r.Err() == nil {
		t.Fatal("expected error")
	}
}
