package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/config"
	"reelbuild/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	layout     artifacts.Layout
}

var testFormat = config.Format{
	Key:             "sq",
	Width:           64,
	Height:          64,
	FPS:             2,
	Duration:        1,
	HeaderTopPct:    0.08,
	MiddlePct:       0.5,
	FooterBottomPct: 0.07,
	SafeTopPct:      0.1,
	SafeBottomPct:   0.1,
	ScaleRefHeight:  64,
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("REELBUILD_CHROME_PATH", "")
	t.Setenv("REELBUILD_NTFY_TOPIC", "")

	opts = append([]testsupport.ConfigOption{testsupport.WithFormats(testFormat)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "reelbuild.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    testsupport.BaseDir(cfg),
		layout:     artifacts.NewLayout(cfg.Paths.RootDir, cfg.Encoding.OutputPrefix),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// seedFrames writes a complete placeholder frame sequence for the test format.
func (e *cliTestEnv) seedFrames(t *testing.T) {
	t.Helper()
	frames := int(float64(testFormat.FPS) * testFormat.Duration)
	for i := range frames {
		testsupport.WriteFile(t, e.layout.FramePath(testFormat.Key, i), "png")
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}
