package formats

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Anchors positions the header, middle and footer blocks as fractions of the frame height.
type Anchors struct {
	HeaderTopPct    float64 `json:"header_top_pct"`
	MiddlePct       float64 `json:"middle_pct"`
	FooterBottomPct float64 `json:"footer_bottom_pct"`
}

// SafeArea is the vertical margin kept clear of platform UI overlays.
type SafeArea struct {
	TopPct    float64 `json:"top_pct"`
	BottomPct float64 `json:"bottom_pct"`
}

// Format describes one output configuration.
type Format struct {
	Key            string   `json:"key"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	FPS            int      `json:"fps"`
	Duration       float64  `json:"duration"`
	Anchors        Anchors  `json:"anchors"`
	Safe           SafeArea `json:"safe"`
	ScaleRefHeight int      `json:"scale_ref_height"`
}

// FrameCount is the number of frames captured for the full duration.
func (f Format) FrameCount() int {
	return int(math.Round(f.Duration * float64(f.FPS)))
}

// FrameTime returns the animation timestamp, in seconds, of frame index i.
func (f Format) FrameTime(i int) float64 {
	if f.FPS <= 0 {
		return 0
	}
	return float64(i) / float64(f.FPS)
}

// AspectLabel renders the dimensions as WxH.
func (f Format) AspectLabel() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// Validate reports descriptor fields that cannot produce a deliverable.
func (f Format) Validate() error {
	var problems []string
	if strings.TrimSpace(f.Key) == "" {
		problems = append(problems, "key is empty")
	}
	if strings.ContainsAny(f.Key, `/\ `) {
		problems = append(problems, "key must not contain separators or spaces")
	}
	if f.Width <= 0 || f.Height <= 0 {
		problems = append(problems, "width and height must be positive")
	}
	if f.FPS <= 0 {
		problems = append(problems, "fps must be positive")
	}
	if f.Duration <= 0 || math.IsNaN(f.Duration) || math.IsInf(f.Duration, 0) {
		problems = append(problems, "duration must be a positive number")
	}
	if len(problems) == 0 && f.FrameCount() < 1 {
		problems = append(problems, "duration × fps rounds to zero frames")
	}
	if len(problems) > 0 {
		return fmt.Errorf("format %q: %w", f.Key, errors.New(strings.Join(problems, "; ")))
	}
	return nil
}
