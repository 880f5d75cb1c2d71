package config

import (
	"fmt"
	"os"
	"strings"
)

// normalize expands paths and fills blanks. Relative root, page, and audio
// paths are resolved against the config file's directory when one was read,
// otherwise against the working directory.
func (c *Config) normalize(configDir string, fromFile bool) error {
	base := ""
	if fromFile {
		base = configDir
	}
	if err := c.normalizePaths(base); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	if err := c.normalizeEncoding(); err != nil {
		return err
	}
	c.normalizeFormats()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths(base string) error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = expandRelative(base, strings.TrimSpace(c.Paths.RootDir)); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() error {
	c.Render.Page = strings.TrimSpace(c.Render.Page)
	if c.Render.Page == "" {
		c.Render.Page = defaultRenderPage
	}
	if !strings.Contains(c.Render.Page, "://") {
		page, err := expandRelative(c.Paths.RootDir, c.Render.Page)
		if err != nil {
			return fmt.Errorf("render.page: %w", err)
		}
		c.Render.Page = page
	}
	c.Render.ChromePath = strings.TrimSpace(c.Render.ChromePath)
	if c.Render.ChromePath == "" {
		if value, ok := os.LookupEnv("REELBUILD_CHROME_PATH"); ok {
			c.Render.ChromePath = strings.TrimSpace(value)
		}
	}
	if c.Render.DeviceScaleFactor == 0 {
		c.Render.DeviceScaleFactor = defaultDeviceScaleFactor
	}
	if c.Render.FrameTimeoutSeconds == 0 {
		c.Render.FrameTimeoutSeconds = defaultFrameTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeEncoding() error {
	c.Encoding.FFmpegBinary = strings.TrimSpace(c.Encoding.FFmpegBinary)
	if c.Encoding.FFmpegBinary == "" {
		c.Encoding.FFmpegBinary = defaultFFmpegBinary
	}
	c.Encoding.AudioBitrate = strings.ToLower(strings.TrimSpace(c.Encoding.AudioBitrate))
	if c.Encoding.AudioBitrate == "" {
		c.Encoding.AudioBitrate = defaultAudioBitrate
	}
	c.Encoding.OutputPrefix = strings.TrimSpace(c.Encoding.OutputPrefix)
	if c.Encoding.OutputPrefix == "" {
		c.Encoding.OutputPrefix = defaultOutputPrefix
	}
	c.Encoding.AudioPath = strings.TrimSpace(c.Encoding.AudioPath)
	if c.Encoding.AudioPath != "" {
		audio, err := expandRelative(c.Paths.RootDir, c.Encoding.AudioPath)
		if err != nil {
			return fmt.Errorf("encoding.audio_path: %w", err)
		}
		c.Encoding.AudioPath = audio
	}
	return nil
}

func (c *Config) normalizeFormats() {
	for i := range c.Formats {
		c.Formats[i].Key = strings.TrimSpace(c.Formats[i].Key)
		if c.Formats[i].ScaleRefHeight == 0 {
			c.Formats[i].ScaleRefHeight = c.Formats[i].Height
		}
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("REELBUILD_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeoutSeconds == 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
