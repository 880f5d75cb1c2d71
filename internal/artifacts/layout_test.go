package artifacts_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reelbuild/internal/artifacts"
)

func TestLayoutPaths(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work")
	l := artifacts.NewLayout(root, "")

	cases := map[string]string{
		l.FramesDir("9x16"):    filepath.Join(root, "tmp", "9x16", "frames"),
		l.FramePath("9x16", 7): filepath.Join(root, "tmp", "9x16", "frames", "000007.png"),
		l.FramePattern("1x1"):  filepath.Join(root, "tmp", "1x1", "frames", "%06d.png"),
		l.SilentVideo("4x5"):   filepath.Join(root, "dist", "4x5", "festival_4x5_silent.mp4"),
		l.FinalVideo("4x5"):    filepath.Join(root, "dist", "4x5", "festival_4x5.mp4"),
		l.Still("4x5"):         filepath.Join(root, "dist", "4x5", "festival_4x5.png"),
		l.ManifestPath():       filepath.Join(root, "dist", "build-manifest.json"),
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}

	if rel := l.Rel(l.FinalVideo("9x16")); rel != "dist/9x16/festival_9x16.mp4" {
		t.Fatalf("unexpected rel path %q", rel)
	}
	outside := filepath.Join(string(filepath.Separator), "elsewhere", "a.mp4")
	if rel := l.Rel(outside); rel != filepath.ToSlash(outside) {
		t.Fatalf("expected absolute fallback, got %q", rel)
	}
}

func TestFrameName(t *testing.T) {
	if artifacts.FrameName(0) != "000000.png" || artifacts.FrameName(123456) != "123456.png" {
		t.Fatal("unexpected frame naming")
	}
}

func TestVerifyFrameSequence(t *testing.T) {
	l := artifacts.NewLayout(t.TempDir(), "promo")
	dir := l.FramesDir("a")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	err := artifacts.VerifyFrameSequence(artifacts.FS{}, l, "a", 3)
	var missing *artifacts.MissingFrameError
	if !errors.As(err, &missing) || missing.Index != 0 {
		t.Fatalf("expected missing frame 0, got %v", err)
	}

	for _, i := range []int{0, 1, 3} {
		if err := os.WriteFile(l.FramePath("a", i), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	err = artifacts.VerifyFrameSequence(artifacts.FS{}, l, "a", 4)
	if !errors.As(err, &missing) || missing.Index != 2 {
		t.Fatalf("expected gap at frame 2, got %v", err)
	}

	if err := artifacts.VerifyFrameSequence(artifacts.FS{}, l, "a", 2); err != nil {
		t.Fatalf("expected contiguous prefix to verify: %v", err)
	}
}
