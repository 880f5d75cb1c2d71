package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var audioBitratePattern = regexp.MustCompile(`^[1-9][0-9]*[km]?$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateFormats()
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return errors.New("notifications.ntfy_topic must be an http(s) URL")
	}
	if c.Notifications.RequestTimeoutSeconds < 0 {
		return errors.New("notifications.request_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.DeviceScaleFactor <= 0 {
		return errors.New("render.device_scale_factor must be positive")
	}
	if c.Render.FrameTimeoutSeconds <= 0 {
		return errors.New("render.frame_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if err := ValidateCRF(c.Encoding.CRF); err != nil {
		return fmt.Errorf("encoding.crf: %w", err)
	}
	if err := ValidateAudioBitrate(c.Encoding.AudioBitrate); err != nil {
		return fmt.Errorf("encoding.audio_bitrate: %w", err)
	}
	if strings.ContainsAny(c.Encoding.OutputPrefix, `/\`) {
		return errors.New("encoding.output_prefix must not contain path separators")
	}
	return nil
}

func (c *Config) validateFormats() error {
	seen := make(map[string]struct{}, len(c.Formats))
	for i, f := range c.Formats {
		if f.Key == "" {
			return fmt.Errorf("formats[%d].key must be set", i)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("formats[%d].key %q is duplicated", i, f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Width <= 0 || f.Height <= 0 {
			return fmt.Errorf("formats.%s: width and height must be positive", f.Key)
		}
		if f.FPS <= 0 {
			return fmt.Errorf("formats.%s: fps must be positive", f.Key)
		}
		if f.Duration <= 0 {
			return fmt.Errorf("formats.%s: duration must be positive", f.Key)
		}
	}
	return nil
}

// ValidateCRF checks an x264 constant rate factor.
func ValidateCRF(crf int) error {
	if crf < 0 || crf > 51 {
		return fmt.Errorf("must be between 0 and 51, got %d", crf)
	}
	return nil
}

// ValidateAudioBitrate checks an ffmpeg bitrate value such as "192k".
func ValidateAudioBitrate(value string) error {
	if !audioBitratePattern.MatchString(strings.ToLower(strings.TrimSpace(value))) {
		return fmt.Errorf("invalid bitrate %q (expected e.g. 192k)", value)
	}
	return nil
}
