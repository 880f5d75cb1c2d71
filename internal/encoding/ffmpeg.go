package encoding

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/deps"
	"reelbuild/internal/formats"
	"reelbuild/internal/logging"
	"reelbuild/internal/services"
)

// Encoder produces silent videos from frames and muxes the soundtrack.
type Encoder interface {
	Check(ctx context.Context) error
	EncodeSilent(ctx context.Context, format formats.Format, framesDir, out string, quality int) error
	MuxAudio(ctx context.Context, silent, audio, out, bitrate string) error
}

// FFmpeg implements Encoder with the ffmpeg CLI.
type FFmpeg struct {
	binary string
	logger *slog.Logger
	run    CommandRunner
}

// NewFFmpeg constructs an encoder using the given binary ("ffmpeg" when blank).
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (f *FFmpeg) WithCommandRunner(r CommandRunner) {
	if f != nil && r != nil {
		f.run = r
	}
}

// Binary returns the configured ffmpeg command.
func (f *FFmpeg) Binary() string {
	if f == nil {
		return ""
	}
	return f.binary
}

// Check confirms ffmpeg resolves on PATH and answers -version.
func (f *FFmpeg) Check(ctx context.Context) error {
	if f == nil {
		return services.Wrap(services.ErrCapability, "", "", "encoder not initialized", nil)
	}
	status := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     f.binary,
		Description: "Encodes frames and muxes audio",
	}})[0]
	if !status.Available {
		return services.WithHint(
			services.Wrap(services.ErrCapability, "", "", status.Detail, nil),
			"install ffmpeg or set encoding.ffmpeg_binary",
		)
	}
	if output, err := f.run(ctx, f.binary, "-version"); err != nil {
		return services.Wrap(services.ErrCapability, "", "", "ffmpeg -version failed", commandError("ffmpeg", err, output))
	}
	return nil
}

// EncodeSilent encodes framesDir/%06d.png at the format's frame rate.
func (f *FFmpeg) EncodeSilent(ctx context.Context, format formats.Format, framesDir, out string, quality int) error {
	if f == nil {
		return services.Wrap(services.ErrCapability, "", "", "encoder not initialized", nil)
	}
	pattern := filepath.Join(framesDir, fmt.Sprintf("%%0%dd.png", artifacts.FrameDigits))
	f.logger.Debug("encoding silent video",
		logging.Format(format.Key),
		logging.String("frames_dir", framesDir),
		logging.Int("fps", format.FPS),
		logging.Int("crf", quality),
		logging.String("output", out),
	)
	return f.produce(ctx, "encode silent video", out, func(tmp string) []string {
		return EncodeArgs(format.FPS, pattern, tmp, quality)
	})
}

// MuxAudio copies the silent video stream and adds the soundtrack as AAC.
func (f *FFmpeg) MuxAudio(ctx context.Context, silent, audio, out, bitrate string) error {
	if f == nil {
		return services.Wrap(services.ErrCapability, "", "", "encoder not initialized", nil)
	}
	f.logger.Debug("muxing audio",
		logging.String("silent", silent),
		logging.String("audio", audio),
		logging.String("bitrate", bitrate),
		logging.String("output", out),
	)
	return f.produce(ctx, "mux audio", out, func(tmp string) []string {
		return MuxArgs(silent, audio, tmp, bitrate)
	})
}

// produce runs one ffmpeg step into a temporary sibling of out and renames it into
// place once the command succeeds.
func (f *FFmpeg) produce(ctx context.Context, step, out string, args func(tmp string) []string) error {
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrCapability, "", "", "create output directory", err)
	}
	tmp := partialPath(out)
	output, err := f.run(ctx, f.binary, args(tmp)...)
	if err != nil {
		_ = os.Remove(tmp)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrCapability, "", "", step, commandError("ffmpeg", err, output))
	}
	if _, err := os.Stat(tmp); err != nil {
		return services.Wrap(services.ErrCapability, "", "", "ffmpeg did not produce "+filepath.Base(out), err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrCapability, "", "", "move output into place", err)
	}
	return nil
}

// partialPath keeps the extension so ffmpeg still infers the container.
func partialPath(out string) string {
	dir := filepath.Dir(out)
	base := filepath.Base(out)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".partial"+ext)
}
