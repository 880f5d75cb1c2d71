package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/formats"
	"reelbuild/internal/history"
	"reelbuild/internal/logging"
	"reelbuild/internal/pipeline"
	"reelbuild/internal/render"
)

func writeTiny(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("x"), 0o644)
}

// fakeRenderer writes one tiny file per frame or still and counts calls.
type fakeRenderer struct {
	acquires   int
	releases   int
	acquireErr error
	frameCalls map[string]int
	stillCalls map[string]int
	failFrames map[string]error
	failStill  map[string]error
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		frameCalls: map[string]int{},
		stillCalls: map[string]int{},
		failFrames: map[string]error{},
		failStill:  map[string]error{},
	}
}

func (r *fakeRenderer) Acquire(context.Context) (render.Session, error) {
	r.acquires++
	if r.acquireErr != nil {
		return nil, r.acquireErr
	}
	return &fakeSession{r: r}, nil
}

func (r *fakeRenderer) invocations() int {
	total := 0
	for _, n := range r.frameCalls {
		total += n
	}
	for _, n := range r.stillCalls {
		total += n
	}
	return total
}

type fakeSession struct {
	r *fakeRenderer
}

func (s *fakeSession) CaptureFrames(_ context.Context, f formats.Format, dir string, progress render.Progress) error {
	s.r.frameCalls[f.Key]++
	if err := s.r.failFrames[f.Key]; err != nil {
		return err
	}
	total := f.FrameCount()
	for i := 0; i < total; i++ {
		if err := writeTiny(filepath.Join(dir, artifacts.FrameName(i))); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return nil
}

func (s *fakeSession) CaptureStill(_ context.Context, f formats.Format, path string) error {
	s.r.stillCalls[f.Key]++
	if err := s.r.failStill[f.Key]; err != nil {
		return err
	}
	return writeTiny(path)
}

func (s *fakeSession) Close() error {
	s.r.releases++
	return nil
}

// fakeEncoder writes its output paths and counts calls.
type fakeEncoder struct {
	checks    int
	checkErr  error
	encodes   map[string]int
	muxes     []string
	encodeErr map[string]error
	qualities []int
	bitrates  []string
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{encodes: map[string]int{}, encodeErr: map[string]error{}}
}

func (e *fakeEncoder) Check(context.Context) error {
	e.checks++
	return e.checkErr
}

func (e *fakeEncoder) EncodeSilent(_ context.Context, f formats.Format, _ string, out string, quality int) error {
	e.encodes[f.Key]++
	e.qualities = append(e.qualities, quality)
	if err := e.encodeErr[f.Key]; err != nil {
		return err
	}
	return writeTiny(out)
}

func (e *fakeEncoder) MuxAudio(_ context.Context, _, _ string, out, bitrate string) error {
	e.muxes = append(e.muxes, out)
	e.bitrates = append(e.bitrates, bitrate)
	return writeTiny(out)
}

func (e *fakeEncoder) invocations() int {
	total := len(e.muxes)
	for _, n := range e.encodes {
		total += n
	}
	return total
}

type fakeHistory struct {
	runs []history.Run
	err  error
}

func (h *fakeHistory) Record(_ context.Context, run history.Run) error {
	h.runs = append(h.runs, run)
	return h.err
}

var (
	formatA = formats.Format{Key: "A", Width: 8, Height: 8, FPS: 2, Duration: 1}
	formatB = formats.Format{Key: "B", Width: 8, Height: 10, FPS: 4, Duration: 1}
)

type harness struct {
	root     string
	layout   artifacts.Layout
	renderer *fakeRenderer
	encoder  *fakeEncoder
	history  *fakeHistory
	runner   *pipeline.Runner
	progress map[string]int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	registry, err := formats.NewRegistry(formatA, formatB)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	audio := filepath.Join(root, "assets", "audio.mp3")
	if err := writeTiny(audio); err != nil {
		t.Fatalf("audio: %v", err)
	}
	h := &harness{
		root:     root,
		layout:   artifacts.NewLayout(root, "festival"),
		renderer: newFakeRenderer(),
		encoder:  newFakeEncoder(),
		history:  &fakeHistory{},
		progress: map[string]int{},
	}
	ids := 0
	h.runner = &pipeline.Runner{
		Registry:   registry,
		Layout:     h.layout,
		Renderer:   h.renderer,
		Encoder:    h.encoder,
		History:    h.history,
		Logger:     logging.NewNop(),
		AudioPath:  audio,
		LockPath:   filepath.Join(root, ".reelbuild.lock"),
		Invocation: []string{"reelbuild", "build"},
		Progress:   func(key string, done, _ int) { h.progress[key] = done },
		Now:        func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) },
		NewRunID: func() string {
			ids++
			return "run-" + string(rune('0'+ids))
		},
	}
	return h
}

func defaultFlags() pipeline.Flags {
	return pipeline.Flags{Quality: 18, AudioBitrate: "192k"}
}

func (h *harness) resetCounters() {
	h.renderer = newFakeRenderer()
	h.encoder = newFakeEncoder()
	h.runner.Renderer = h.renderer
	h.runner.Encoder = h.encoder
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func countFrames(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0
		}
		t.Fatalf("read frames: %v", err)
	}
	return len(entries)
}
