package main

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"reelbuild/internal/pipeline"
)

const progressThrottle = 65 * time.Millisecond

// frameProgress draws one bar per format while frames are captured.
type frameProgress struct {
	out io.Writer

	mu     sync.Mutex
	format string
	bar    *progressbar.ProgressBar
}

// newFrameProgress returns nil when out is not a terminal.
func newFrameProgress(out io.Writer, enabled bool) *frameProgress {
	if !enabled || !isTerminal(out) {
		return nil
	}
	return &frameProgress{out: out}
}

func (p *frameProgress) callback() pipeline.ProgressFunc {
	if p == nil {
		return nil
	}
	return p.update
}

func (p *frameProgress) update(format string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || p.format != format {
		p.finishLocked()
		p.format = format
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("render "+format),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(progressThrottle),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
	if done >= total {
		p.finishLocked()
	}
}

func (p *frameProgress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *frameProgress) finishLocked() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
	p.format = ""
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
