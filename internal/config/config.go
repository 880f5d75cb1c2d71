package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	RootDir  string `toml:"root_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Render contains headless browser settings for frame and still capture.
type Render struct {
	Page                string  `toml:"page"`
	ChromePath          string  `toml:"chrome_path"`
	DeviceScaleFactor   float64 `toml:"device_scale_factor"`
	FrameTimeoutSeconds int     `toml:"frame_timeout_seconds"`
	Headless            bool    `toml:"headless"`
}

// Encoding contains ffmpeg invocation settings.
type Encoding struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	CRF          int    `toml:"crf"`
	AudioBitrate string `toml:"audio_bitrate"`
	AudioPath    string `toml:"audio_path"`
	OutputPrefix string `toml:"output_prefix"`
}

// Format overrides one entry of the output format registry.
type Format struct {
	Key             string  `toml:"key"`
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	FPS             int     `toml:"fps"`
	Duration        float64 `toml:"duration"`
	HeaderTopPct    float64 `toml:"header_top_pct"`
	MiddlePct       float64 `toml:"middle_pct"`
	FooterBottomPct float64 `toml:"footer_bottom_pct"`
	SafeTopPct      float64 `toml:"safe_top_pct"`
	SafeBottomPct   float64 `toml:"safe_bottom_pct"`
	ScaleRefHeight  int     `toml:"scale_ref_height"`
}

// Notifications configures optional ntfy build notifications.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelbuild.
//
// Configuration sections by subsystem:
//   - Paths: deliverables root, state (history/lock) and log directories
//   - Render: page location and headless Chrome settings
//   - Encoding: ffmpeg binary, quality, audio asset and output naming
//   - Formats: optional replacement for the built-in format registry
//   - Notifications: ntfy topic for build completion messages
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Render        Render        `toml:"render"`
	Encoding      Encoding      `toml:"encoding"`
	Formats       []Format      `toml:"formats"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelbuild/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(filepath.Dir(resolvedPath), exists); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelbuild.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The deliverables
// root is left alone; the pipeline creates per-format trees on demand.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Rebase moves the deliverables root to dir. Page and audio paths that lived
// under the previous root follow it.
func (c *Config) Rebase(dir string) error {
	root, err := expandPath(strings.TrimSpace(dir))
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if root == "" || root == c.Paths.RootDir {
		return nil
	}
	move := func(p string) string {
		rel, err := filepath.Rel(c.Paths.RootDir, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return p
		}
		return filepath.Join(root, rel)
	}
	if !strings.Contains(c.Render.Page, "://") && c.Render.Page != "" {
		c.Render.Page = move(c.Render.Page)
	}
	if c.Encoding.AudioPath != "" {
		c.Encoding.AudioPath = move(c.Encoding.AudioPath)
	}
	c.Paths.RootDir = root
	return nil
}

// HistoryPath returns the SQLite run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the file the logger appends to.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "reelbuild.log")
}

// LockPath returns the build lock file guarding the deliverables root.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.RootDir, ".reelbuild.lock")
}

// PageURL returns the render page as a URL. Local paths become file:// URLs.
func (c *Config) PageURL() string {
	page := strings.TrimSpace(c.Render.Page)
	if strings.Contains(page, "://") {
		return page
	}
	return "file://" + filepath.ToSlash(page)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// expandRelative resolves pathValue against base unless it is already
// absolute or home-relative.
func expandRelative(base, pathValue string) (string, error) {
	if pathValue == "" || base == "" || filepath.IsAbs(pathValue) || strings.HasPrefix(pathValue, "~") {
		return expandPath(pathValue)
	}
	return expandPath(filepath.Join(base, pathValue))
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
