// Package testsupport builds throwaway configurations, files and stores for
// package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelbuild/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The project root contains a render page and a soundtrack so preflight
// passes for the asset checks.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RootDir = filepath.Join(base, "project")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Render.Page = filepath.Join(cfgVal.Paths.RootDir, "index.html")
	cfgVal.Encoding.AudioPath = filepath.Join(cfgVal.Paths.RootDir, "assets", "audio.mp3")

	WriteFile(t, cfgVal.Render.Page, "<!doctype html><title>reelbuild</title>")
	WriteFile(t, cfgVal.Encoding.AudioPath, "ID3 placeholder soundtrack")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPrefix overrides the deliverable filename prefix.
func WithPrefix(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.OutputPrefix = prefix
	}
}

// WithFormats replaces the format table.
func WithFormats(list ...config.Format) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Formats = append([]config.Format(nil), list...)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		for _, name := range names {
			b.writeStub(name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithFakeFFmpeg installs an ffmpeg stub that answers -version and creates
// the .mp4 output named by its last argument.
func WithFakeFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		b.writeStub("ffmpeg", fakeFFmpegScript)
	}
}

const fakeFFmpegScript = `#!/bin/sh
for arg in "$@"; do
	last="$arg"
done
case "$last" in
*.mp4) printf 'fake video' > "$last" ;;
esac
exit 0
`

func (b *configBuilder) writeStub(name, script string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	path := os.Getenv("PATH")
	if !strings.HasPrefix(path, binDir+string(os.PathListSeparator)) {
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
