package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank status: %#v", results[2])
	}
}

func TestResolveChromeExplicitPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a unix-like system")
	}
	path := filepath.Join(t.TempDir(), "my-chrome")
	writeStub(t, path)

	status := ResolveChrome(path)
	if !status.Available || status.Command != path {
		t.Fatalf("expected explicit chrome to resolve, got %#v", status)
	}
}

func TestResolveChromeExplicitMissing(t *testing.T) {
	status := ResolveChrome(filepath.Join(t.TempDir(), "absent"))
	if status.Available || status.Detail == "" {
		t.Fatalf("expected unavailable status, got %#v", status)
	}
}

func TestResolveChromeFromPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("PATH probing test targets linux")
	}
	binDir := t.TempDir()
	chromium := filepath.Join(binDir, "chromium")
	writeStub(t, chromium)
	t.Setenv("PATH", binDir)

	status := ResolveChrome("")
	if !status.Available || status.Command != chromium {
		t.Fatalf("expected chromium from PATH, got %#v", status)
	}
}

func TestResolveChromeNothingFound(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("PATH probing test targets linux")
	}
	t.Setenv("PATH", t.TempDir())

	status := ResolveChrome("")
	if status.Available {
		t.Fatalf("expected no browser, got %#v", status)
	}
	if status.Detail == "" {
		t.Fatal("expected guidance in detail")
	}
}
