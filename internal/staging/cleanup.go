// Package staging manages the generated output trees: the full reset behind
// --clean and the frame pruning that follows a successful build.
package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/logging"
)

// CleanResult contains the outcome of a cleanup operation.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Err folds the collected failures into one error, or nil.
func (r CleanResult) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, fmt.Errorf("remove %s: %w", e.Path, e.Error))
	}
	return errors.Join(errs...)
}

// Reset removes the dist and tmp trees, manifest included. Source assets are
// never touched. Missing trees are not an error.
func Reset(layout artifacts.Layout, logger *slog.Logger) error {
	result := CleanResult{}
	for _, dir := range []string{layout.DistDir(), layout.TmpDir()} {
		removeTree(&result, dir, logger, "clean")
	}
	return result.Err()
}

// PruneFrames deletes the frame directory of every given format, then drops
// the per-format and top-level tmp directories when they are left empty.
// Failures are collected and logged; pruning never fails a build.
func PruneFrames(layout artifacts.Layout, keys []string, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	for _, key := range keys {
		removeTree(&result, layout.FramesDir(key), logger, "prune")
		removeIfEmpty(layout.FormatTmpDir(key))
	}
	removeIfEmpty(layout.TmpDir())
	return result
}

func removeTree(result *CleanResult, dir string, logger *slog.Logger, reason string) {
	if _, err := os.Lstat(dir); err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		if logger != nil {
			logger.Warn("failed to remove generated directory",
				logging.String("path", dir),
				logging.String("reason", reason),
				logging.Error(err),
				logging.String(logging.FieldEventType, "staging_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "check output directory permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
		return
	}
	result.Removed = append(result.Removed, dir)
	if logger != nil {
		logger.Debug("removed generated directory",
			logging.String("path", filepath.ToSlash(dir)),
			logging.String("reason", reason),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
}

// removeIfEmpty relies on os.Remove refusing non-empty directories.
func removeIfEmpty(dir string) {
	_ = os.Remove(dir)
}
