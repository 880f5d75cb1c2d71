// Package manifest records what a successful build produced.
//
// The manifest lives at dist/build-manifest.json. It lists every selected
// format with its geometry and the deliverables that exist once the run has
// finished, as paths relative to the deliverables root. It is written only
// after a successful run and always replaced atomically.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/fileutil"
	"reelbuild/internal/formats"
)

// ErrNotFound reports that no manifest has been written yet.
var ErrNotFound = errors.New("manifest not found")

// Flags is the snapshot of run flags stored with a manifest.
type Flags struct {
	Formats      []string `json:"formats"`
	Clean        bool     `json:"clean"`
	Force        bool     `json:"force"`
	SkipRender   bool     `json:"skip_render"`
	SkipEncode   bool     `json:"skip_encode"`
	SkipMux      bool     `json:"skip_mux"`
	SkipStill    bool     `json:"skip_still"`
	KeepFrames   bool     `json:"keep_frames"`
	CRF          int      `json:"crf"`
	AudioBitrate string   `json:"audio_bitrate"`
}

// Outputs holds deliverable paths; nil marks an artifact that does not exist.
type Outputs struct {
	FinalVideo  *string `json:"final_video"`
	SilentVideo *string `json:"silent_video"`
	Still       *string `json:"still"`
}

// Entry describes one format in the manifest.
type Entry struct {
	Key      string            `json:"key"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	FPS      int               `json:"fps"`
	Duration float64           `json:"duration"`
	Outputs  Outputs           `json:"outputs"`
	Stages   map[string]string `json:"stages,omitempty"`
}

// Manifest is the build manifest document.
type Manifest struct {
	RunID       string   `json:"run_id"`
	GeneratedAt string   `json:"generated_at"`
	Invocation  []string `json:"invocation"`
	Flags       Flags    `json:"flags"`
	Formats     []Entry  `json:"formats"`
}

// Input gathers what Build needs.
type Input struct {
	RunID       string
	GeneratedAt time.Time
	Invocation  []string
	Flags       Flags
	Formats     []formats.Format
	Layout      artifacts.Layout
	Oracle      artifacts.Oracle
	// Stages maps format key to stage name to outcome.
	Stages map[string]map[string]string
}

// Build inspects the final artifact state and assembles the manifest.
func Build(in Input) Manifest {
	oracle := in.Oracle
	if oracle == nil {
		oracle = artifacts.FS{}
	}
	invocation := in.Invocation
	if invocation == nil {
		invocation = []string{}
	}
	m := Manifest{
		RunID:       in.RunID,
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
		Invocation:  invocation,
		Flags:       in.Flags,
		Formats:     make([]Entry, 0, len(in.Formats)),
	}
	if m.Flags.Formats == nil {
		m.Flags.Formats = []string{}
	}
	for _, f := range in.Formats {
		m.Formats = append(m.Formats, Entry{
			Key:      f.Key,
			Width:    f.Width,
			Height:   f.Height,
			FPS:      f.FPS,
			Duration: f.Duration,
			Outputs: Outputs{
				FinalVideo:  relIfExists(oracle, in.Layout, in.Layout.FinalVideo(f.Key)),
				SilentVideo: relIfExists(oracle, in.Layout, in.Layout.SilentVideo(f.Key)),
				Still:       relIfExists(oracle, in.Layout, in.Layout.Still(f.Key)),
			},
			Stages: in.Stages[f.Key],
		})
	}
	return m
}

func relIfExists(oracle artifacts.Oracle, layout artifacts.Layout, path string) *string {
	if !oracle.Exists(path) {
		return nil
	}
	rel := layout.Rel(path)
	return &rel
}

// Write serializes m to path atomically.
func Write(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
