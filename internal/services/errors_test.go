package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelbuild/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrCapability, "9x16", "mux", "ffmpeg failed", base)
	if !errors.Is(err, services.ErrCapability) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"9x16", "mux", "ffmpeg failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrCapability) {
		t.Fatalf("expected capability marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrConfiguration, "", "", "unknown format", nil), "configuration"},
		{services.Wrap(services.ErrPrecondition, "", "", "ffmpeg missing", nil), "precondition"},
		{services.Wrap(services.ErrDependency, "1x1", "encode", "frames missing", nil), "dependency"},
		{services.Wrap(services.ErrCapability, "1x1", "render", "crash", nil), "capability"},
		{errors.New("other"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestHintSurvivesWrapping(t *testing.T) {
	base := services.Wrap(services.ErrDependency, "4x5", "mux", "silent video missing", nil)
	hinted := services.WithHint(base, "re-run without --skip-encode")
	outer := fmt.Errorf("build failed: %w", hinted)

	if got := services.Hint(outer); got != "re-run without --skip-encode" {
		t.Fatalf("unexpected hint %q", got)
	}
	if !errors.Is(outer, services.ErrDependency) {
		t.Fatal("expected dependency marker to survive hint wrapping")
	}
	if services.WithHint(nil, "x") != nil {
		t.Fatal("expected nil error to stay nil")
	}
	if services.Hint(errors.New("plain")) != "" {
		t.Fatal("expected empty hint for plain error")
	}
}
