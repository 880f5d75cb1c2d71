package config

const (
	defaultRootDir             = "."
	defaultStateDir            = "~/.local/share/reelbuild"
	defaultLogDir              = "~/.local/share/reelbuild/logs"
	defaultRenderPage          = "index.html"
	defaultDeviceScaleFactor   = 1.0
	defaultFrameTimeoutSeconds = 30
	defaultFFmpegBinary        = "ffmpeg"
	defaultCRF                 = 18
	defaultAudioBitrate        = "192k"
	defaultAudioPath           = "assets/audio.mp3"
	defaultOutputPrefix        = "festival"
	defaultNtfyTimeout         = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir:  defaultRootDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Render: Render{
			Page:                defaultRenderPage,
			DeviceScaleFactor:   defaultDeviceScaleFactor,
			FrameTimeoutSeconds: defaultFrameTimeoutSeconds,
			Headless:            true,
		},
		Encoding: Encoding{
			FFmpegBinary: defaultFFmpegBinary,
			CRF:          defaultCRF,
			AudioBitrate: defaultAudioBitrate,
			AudioPath:    defaultAudioPath,
			OutputPrefix: defaultOutputPrefix,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
