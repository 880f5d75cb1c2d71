package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/config"
	"reelbuild/internal/deps"
	"reelbuild/internal/fileutil"
	"reelbuild/internal/formats"
	"reelbuild/internal/logging"
	"reelbuild/internal/services"
)

// Options configures the Chrome renderer.
type Options struct {
	PageURL           string
	ExecPath          string
	DeviceScaleFactor float64
	FrameTimeout      time.Duration
	Headless          bool
}

// OptionsFromConfig maps the [render] section onto renderer options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Headless: true, DeviceScaleFactor: 1, FrameTimeout: 30 * time.Second}
	}
	return Options{
		PageURL:           cfg.PageURL(),
		ExecPath:          cfg.Render.ChromePath,
		DeviceScaleFactor: cfg.Render.DeviceScaleFactor,
		FrameTimeout:      time.Duration(cfg.Render.FrameTimeoutSeconds) * time.Second,
		Headless:          cfg.Render.Headless,
	}
}

// Chrome launches a headless Chrome per acquired session via chromedp.
type Chrome struct {
	opts   Options
	logger *slog.Logger
}

// NewChrome constructs a Chrome renderer.
func NewChrome(opts Options, logger *slog.Logger) *Chrome {
	if opts.DeviceScaleFactor <= 0 {
		opts.DeviceScaleFactor = 1
	}
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = 30 * time.Second
	}
	return &Chrome{opts: opts, logger: logging.NewComponentLogger(logger, "renderer")}
}

// Acquire starts the browser and returns a session bound to it.
func (c *Chrome) Acquire(ctx context.Context) (Session, error) {
	status := deps.ResolveChrome(c.opts.ExecPath)
	if !status.Available {
		return nil, services.WithHint(
			services.Wrap(services.ErrCapability, "", "", status.Detail, nil),
			"install Chrome or Chromium, or set render.chrome_path",
		)
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.ExecPath(status.Command),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	if !c.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, services.Wrap(services.ErrCapability, "", "", "launch browser", err)
	}

	c.logger.Debug("browser launched", logging.String("exec_path", status.Command))
	return &chromeSession{
		opts:          c.opts,
		logger:        c.logger,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

type chromeSession struct {
	opts          Options
	logger        *slog.Logger
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
	closeErr      error
}

func (s *chromeSession) CaptureFrames(ctx context.Context, format formats.Format, dir string, progress Progress) error {
	tabCtx, closeTab, err := s.openPage(ctx, format, false)
	if err != nil {
		return err
	}
	defer closeTab()

	total := format.FrameCount()
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf, err := s.capture(tabCtx, renderAtExpression(format.FrameTime(i)))
		if err != nil {
			return services.Wrap(services.ErrCapability, "", "", fmt.Sprintf("capture frame %d of %d", i, total), err)
		}
		if err := os.WriteFile(filepath.Join(dir, artifacts.FrameName(i)), buf, 0o644); err != nil {
			return services.Wrap(services.ErrCapability, "", "", fmt.Sprintf("write frame %d", i), err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	s.logger.Debug("frames captured", logging.Format(format.Key), logging.Frames(total, total))
	return nil
}

func (s *chromeSession) CaptureStill(ctx context.Context, format formats.Format, path string) error {
	tabCtx, closeTab, err := s.openPage(ctx, format, true)
	if err != nil {
		return err
	}
	defer closeTab()

	buf, err := s.capture(tabCtx, renderStillExpression(format.Duration))
	if err != nil {
		return services.Wrap(services.ErrCapability, "", "", "capture still", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf, 0o644); err != nil {
		return services.Wrap(services.ErrCapability, "", "", "write still", err)
	}
	return nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.browserCtx)
		s.cancelBrowser()
		s.cancelAlloc()
		if errors.Is(s.closeErr, context.Canceled) {
			s.closeErr = nil
		}
	})
	return s.closeErr
}

// openPage creates a tab sized to the format and loads the page in render
// mode. The returned func closes the tab.
func (s *chromeSession) openPage(ctx context.Context, format formats.Format, still bool) (context.Context, func(), error) {
	target, err := PageURL(s.opts.PageURL, format.Key, still)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "", "", "invalid page url", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	stop := context.AfterFunc(ctx, cancelTab)
	closeTab := func() {
		stop()
		cancelTab()
	}

	loadCtx, cancelLoad := context.WithTimeout(tabCtx, s.opts.FrameTimeout)
	defer cancelLoad()
	var hooked bool
	err = chromedp.Run(loadCtx,
		chromedp.EmulateViewport(int64(format.Width), int64(format.Height), chromedp.EmulateScale(s.opts.DeviceScaleFactor)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(hookCheckExpression(still), &hooked),
	)
	if err != nil {
		closeTab()
		return nil, nil, services.Wrap(services.ErrCapability, "", "", "load page "+target, err)
	}
	if !hooked {
		closeTab()
		return nil, nil, services.WithHint(
			services.Wrap(services.ErrCapability, "", "", "page does not define window.__renderAt", nil),
			"check render.page points at the festival page",
		)
	}
	s.logger.Debug("page loaded",
		logging.Format(format.Key),
		logging.String("url", target),
		logging.Bool("still", still),
	)
	return tabCtx, closeTab, nil
}

// capture evaluates expr, which settles the page, and screenshots the viewport.
func (s *chromeSession) capture(tabCtx context.Context, expr string) ([]byte, error) {
	frameCtx, cancel := context.WithTimeout(tabCtx, s.opts.FrameTimeout)
	defer cancel()
	var ok bool
	var buf []byte
	err := chromedp.Run(frameCtx,
		chromedp.Evaluate(expr, &ok, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
