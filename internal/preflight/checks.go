package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"reelbuild/internal/config"
	"reelbuild/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path), Hint: "create the directory or pass --root"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAudioAsset verifies the shared soundtrack exists and is a readable file.
func CheckAudioAsset(path string) Result {
	const name = "Audio asset"
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured", Hint: "set encoding.audio_path or pass --audio"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path), Hint: "add the soundtrack or pass --audio, or use --skip-mux"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckEncoder asks the encoder to confirm it can run.
func CheckEncoder(ctx context.Context, encoder EncoderChecker) Result {
	const name = "Encoder"
	if encoder == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := encoder.Check(ctx); err != nil {
		return Result{Name: name, Detail: err.Error(), Err: err}
	}
	return Result{Name: name, Passed: true, Detail: "available"}
}

// CheckRenderPage verifies a local render page exists. Remote pages pass
// without probing.
func CheckRenderPage(page string) Result {
	const name = "Render page"
	page = strings.TrimSpace(page)
	if page == "" {
		return Result{Name: name, Detail: "not configured", Hint: "set render.page"}
	}
	if strings.Contains(page, "://") {
		return Result{Name: name, Passed: true, Detail: page + " (remote, not probed)"}
	}
	info, err := os.Stat(page)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", page, err), Hint: "set render.page"}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", page)}
	}
	return Result{Name: name, Passed: true, Detail: page}
}

// CheckSystemDeps evaluates the external binaries a build may launch.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     cfg.Encoding.FFmpegBinary,
		Description: "Encodes frames and muxes audio",
	}})
	return append(statuses, deps.ResolveChrome(cfg.Render.ChromePath))
}
