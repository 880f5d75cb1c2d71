// Package artifacts maps formats onto the on-disk deliverables tree and
// answers existence questions about it.
//
// Layout under the deliverables root:
//
//	tmp/<key>/frames/%06d.png           frame sequence (intermediate)
//	dist/<key>/<prefix>_<key>_silent.mp4 silent video (intermediate)
//	dist/<key>/<prefix>_<key>.mp4        final video with audio
//	dist/<key>/<prefix>_<key>.png        still image
//	dist/build-manifest.json             latest successful run
package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FrameDigits is the zero-padding width of frame filenames.
const FrameDigits = 6

// ManifestName is the manifest filename inside the dist directory.
const ManifestName = "build-manifest.json"

// Layout resolves artifact paths beneath a deliverables root.
type Layout struct {
	Root   string
	Prefix string
}

// NewLayout builds a layout; an empty prefix falls back to "festival".
func NewLayout(root, prefix string) Layout {
	if prefix == "" {
		prefix = "festival"
	}
	return Layout{Root: root, Prefix: prefix}
}

func (l Layout) DistDir() string { return filepath.Join(l.Root, "dist") }

func (l Layout) TmpDir() string { return filepath.Join(l.Root, "tmp") }

// FormatDistDir holds every deliverable of one format.
func (l Layout) FormatDistDir(key string) string { return filepath.Join(l.DistDir(), key) }

// FormatTmpDir holds every intermediate of one format.
func (l Layout) FormatTmpDir(key string) string { return filepath.Join(l.TmpDir(), key) }

func (l Layout) FramesDir(key string) string { return filepath.Join(l.FormatTmpDir(key), "frames") }

// FramePath is the path of frame index i.
func (l Layout) FramePath(key string, i int) string {
	return filepath.Join(l.FramesDir(key), FrameName(i))
}

// FramePattern is the printf-style input pattern ffmpeg expects.
func (l Layout) FramePattern(key string) string {
	return filepath.Join(l.FramesDir(key), fmt.Sprintf("%%0%dd.png", FrameDigits))
}

func (l Layout) SilentVideo(key string) string {
	return filepath.Join(l.FormatDistDir(key), fmt.Sprintf("%s_%s_silent.mp4", l.Prefix, key))
}

func (l Layout) FinalVideo(key string) string {
	return filepath.Join(l.FormatDistDir(key), fmt.Sprintf("%s_%s.mp4", l.Prefix, key))
}

func (l Layout) Still(key string) string {
	return filepath.Join(l.FormatDistDir(key), fmt.Sprintf("%s_%s.png", l.Prefix, key))
}

func (l Layout) ManifestPath() string { return filepath.Join(l.DistDir(), ManifestName) }

// Rel renders path relative to the root with forward slashes, falling back
// to the absolute path when it lies outside the root.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FrameName is the zero-padded PNG filename for frame index i.
func FrameName(i int) string {
	return fmt.Sprintf("%0*d.png", FrameDigits, i)
}
