package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelbuild/internal/config"
	"reelbuild/internal/encoding"
	"reelbuild/internal/formats"
	"reelbuild/internal/history"
	"reelbuild/internal/logging"
	"reelbuild/internal/notifications"
	"reelbuild/internal/pipeline"
	"reelbuild/internal/render"
)

// selectionOptions are the flags shared by build and plan.
type selectionOptions struct {
	formats    string
	root       string
	force      bool
	skipRender bool
	skipEncode bool
	skipMux    bool
	skipStill  bool
}

func (o *selectionOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.formats, "formats", "", "Comma-separated format keys (default: all)")
	flags.StringVar(&o.root, "root", "", "Deliverables root directory (overrides paths.root_dir)")
	flags.BoolVar(&o.force, "force", false, "Run every non-skipped stage even when outputs exist")
	flags.BoolVar(&o.skipRender, "skip-render", false, "Do not capture frames")
	flags.BoolVar(&o.skipEncode, "skip-encode", false, "Do not encode silent videos")
	flags.BoolVar(&o.skipMux, "skip-mux", false, "Do not mux audio into final videos")
	flags.BoolVar(&o.skipStill, "skip-still", false, "Do not export stills")
}

func (o *selectionOptions) flags(cfg *config.Config) pipeline.Flags {
	return pipeline.Flags{
		Formats:      formats.ParseKeyList(o.formats),
		Force:        o.force,
		SkipRender:   o.skipRender,
		SkipEncode:   o.skipEncode,
		SkipMux:      o.skipMux,
		SkipStill:    o.skipStill,
		Quality:      cfg.Encoding.CRF,
		AudioBitrate: cfg.Encoding.AudioBitrate,
	}
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var selection selectionOptions
	var clean bool
	var keepFrames bool
	var crf int
	var audioBitrate string
	var audioPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render, encode, mux and export stills for the selected formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.projectConfig(selection.root)
			if err != nil {
				return err
			}
			if strings.TrimSpace(audioPath) != "" {
				expanded, err := config.ExpandPath(audioPath)
				if err != nil {
					return fmt.Errorf("resolve --audio: %w", err)
				}
				cfg.Encoding.AudioPath = expanded
			}

			flags := selection.flags(cfg)
			flags.Clean = clean
			flags.KeepFrames = keepFrames
			if cmd.Flags().Changed("crf") {
				flags.Quality = crf
			}
			if cmd.Flags().Changed("audio-bitrate") {
				flags.AudioBitrate = strings.ToLower(strings.TrimSpace(audioBitrate))
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			registry, err := registryFor(cfg)
			if err != nil {
				return err
			}

			runner := &pipeline.Runner{
				Registry:   registry,
				Layout:     layoutFor(cfg),
				Renderer:   render.NewChrome(render.OptionsFromConfig(cfg), logger),
				Encoder:    encoding.NewFFmpeg(cfg.Encoding.FFmpegBinary, logger),
				Logger:     logger,
				AudioPath:  cfg.Encoding.AudioPath,
				LockPath:   cfg.LockPath(),
				Invocation: os.Args,
			}

			store, err := history.Open(cmd.Context(), cfg.HistoryPath())
			if err != nil {
				logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this run will not be recorded"),
				)
			} else {
				defer store.Close()
				runner.History = store
			}

			progress := newFrameProgress(cmd.ErrOrStderr(), !jsonOutput)
			runner.Progress = progress.callback()

			summary, runErr := runner.Run(cmd.Context(), flags)
			progress.finish()
			publishBuild(cmd.Context(), notifications.NewService(cfg), logger, summary, runErr)

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			}
			return runErr
		},
	}

	selection.bind(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&clean, "clean", false, "Remove dist/ and tmp/ (including the previous manifest) before preflight checks run")
	flags.BoolVar(&keepFrames, "keep-frames", false, "Keep captured frames after a successful build")
	flags.IntVar(&crf, "crf", 0, "x264 constant rate factor, 0-51 (default from config)")
	flags.StringVar(&audioBitrate, "audio-bitrate", "", "AAC bitrate such as 192k (default from config)")
	flags.StringVar(&audioPath, "audio", "", "Soundtrack to mux (overrides encoding.audio_path)")
	flags.BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}
