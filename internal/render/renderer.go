package render

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"reelbuild/internal/formats"
)

// Progress reports frame capture progress as done out of total.
type Progress func(done, total int)

// Renderer acquires browser sessions.
type Renderer interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session captures frames and stills for any number of formats.
type Session interface {
	// CaptureFrames writes FrameCount() PNG files named %06d.png, starting at
	// zero, into dir.
	CaptureFrames(ctx context.Context, format formats.Format, dir string, progress Progress) error
	// CaptureStill writes the terminal state of the animation to path.
	CaptureStill(ctx context.Context, format formats.Format, path string) error
	Close() error
}

// PageURL appends the render query parameters for a format to page.
func PageURL(page, key string, still bool) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	q := u.Query()
	q.Set("render", "1")
	q.Set("format", key)
	if still {
		q.Set("mode", "still")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// renderAtExpression awaits the page hook so pages may return a promise.
func renderAtExpression(t float64) string {
	return "(async () => { await window.__renderAt(" + formatSeconds(t) + "); return true; })()"
}

// renderStillExpression settles the page through __renderStill. Pages without
// it are advanced to the end of the animation instead.
func renderStillExpression(duration float64) string {
	return `(async () => { if (typeof window.__renderStill === "function") { await window.__renderStill(); } ` +
		`else { await window.__renderAt(` + formatSeconds(duration) + `); } return true; })()`
}

func hookCheckExpression(still bool) string {
	if still {
		return `typeof window.__renderStill === "function" || typeof window.__renderAt === "function"`
	}
	return `typeof window.__renderAt === "function"`
}

func formatSeconds(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
