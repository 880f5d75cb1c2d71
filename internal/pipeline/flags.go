package pipeline

import (
	"reelbuild/internal/config"
	"reelbuild/internal/manifest"
	"reelbuild/internal/services"
	"reelbuild/internal/stage"
	"reelbuild/internal/staleness"
)

// Flags is the immutable per-run option set built by the CLI.
type Flags struct {
	Formats      []string
	Clean        bool
	Force        bool
	SkipRender   bool
	SkipEncode   bool
	SkipMux      bool
	SkipStill    bool
	KeepFrames   bool
	Quality      int
	AudioBitrate string
}

// Excluded reports whether the user turned stage n off for this run.
func (f Flags) Excluded(n stage.Name) bool {
	switch n {
	case stage.Render:
		return f.SkipRender
	case stage.Encode:
		return f.SkipEncode
	case stage.Mux:
		return f.SkipMux
	case stage.Still:
		return f.SkipStill
	default:
		return false
	}
}

// Validate rejects encoder settings ffmpeg would refuse.
func (f Flags) Validate() error {
	if err := config.ValidateCRF(f.Quality); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", "crf", err)
	}
	if err := config.ValidateAudioBitrate(f.AudioBitrate); err != nil {
		return services.Wrap(services.ErrConfiguration, "", "", "audio bitrate", err)
	}
	return nil
}

// StalenessOptions maps the flags onto the resolver's inputs.
func (f Flags) StalenessOptions() staleness.Options {
	skip := make(map[stage.Name]bool, len(stage.Order))
	for _, n := range stage.Order {
		if f.Excluded(n) {
			skip[n] = true
		}
	}
	return staleness.Options{Force: f.Force, Skip: skip}
}

// Snapshot returns the flag values stored in manifests and history.
func (f Flags) Snapshot() manifest.Flags {
	keys := append([]string{}, f.Formats...)
	return manifest.Flags{
		Formats:      keys,
		Clean:        f.Clean,
		Force:        f.Force,
		SkipRender:   f.SkipRender,
		SkipEncode:   f.SkipEncode,
		SkipMux:      f.SkipMux,
		SkipStill:    f.SkipStill,
		KeepFrames:   f.KeepFrames,
		CRF:          f.Quality,
		AudioBitrate: f.AudioBitrate,
	}
}
