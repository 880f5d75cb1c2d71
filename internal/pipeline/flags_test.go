package pipeline_test

import (
	"encoding/json"
	"errors"
	"testing"

	"reelbuild/internal/pipeline"
	"reelbuild/internal/services"
	"reelbuild/internal/stage"
)

func TestFlagsExcludedAndOptions(t *testing.T) {
	flags := pipeline.Flags{SkipEncode: true, SkipStill: true, Force: true}
	opts := flags.StalenessOptions()
	if !opts.Force {
		t.Fatal("expected force")
	}
	want := map[stage.Name]bool{stage.Encode: true, stage.Still: true}
	for _, n := range stage.Order {
		if flags.Excluded(n) != want[n] || opts.Skip[n] != want[n] {
			t.Fatalf("%s: excluded=%v skip=%v want %v", n, flags.Excluded(n), opts.Skip[n], want[n])
		}
	}
}

func TestFlagsSnapshot(t *testing.T) {
	flags := pipeline.Flags{Formats: []string{"1x1"}, KeepFrames: true, Quality: 20, AudioBitrate: "160k"}
	snap := flags.Snapshot()
	flags.Formats[0] = "mutated"
	if snap.Formats[0] != "1x1" {
		t.Fatal("snapshot must not alias the flag slice")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["keep_frames"] != true || decoded["crf"] != float64(20) || decoded["audio_bitrate"] != "160k" {
		t.Fatalf("unexpected snapshot %s", data)
	}
}

func TestFlagsValidate(t *testing.T) {
	if err := (pipeline.Flags{Quality: 0, AudioBitrate: "192k"}).Validate(); err != nil {
		t.Fatalf("crf 0 is valid: %v", err)
	}
	if err := (pipeline.Flags{Quality: -1, AudioBitrate: "192k"}).Validate(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err := (pipeline.Flags{Quality: 18}).Validate(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty bitrate, got %v", err)
	}
}

func TestPlanIsSideEffectFree(t *testing.T) {
	h := newHarness(t)
	plan, err := h.runner.Plan(defaultFlags())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Formats) != 2 || !plan.BrowserNeeded || !plan.AudioNeeded {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if exists(h.layout.DistDir()) || h.renderer.acquires != 0 || len(h.history.runs) != 0 {
		t.Fatal("planning must not touch anything")
	}

	flags := defaultFlags()
	flags.Formats = []string{"missing"}
	if _, err := h.runner.Plan(flags); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestStageErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := &pipeline.StageError{Format: "9x16", Stage: stage.Encode, Err: cause}
	if err.Error() != "9x16 encode failed: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected unwrap to cause")
	}
}
