package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid invocation input such as an unknown format key.
	ErrConfiguration = errors.New("configuration error")
	// ErrPrecondition marks a run-wide prerequisite that is missing (encoder, audio, renderer).
	ErrPrecondition = errors.New("precondition failed")
	// ErrDependency marks a stage whose prerequisite artifact is absent.
	ErrDependency = errors.New("missing dependency")
	// ErrCapability marks a failure reported by the renderer or encoder itself.
	ErrCapability = errors.New("capability error")
	// ErrValidation marks malformed configuration values.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes format and stage context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, format, stage, message string, err error) error {
	detail := buildDetail(format, stage, message)
	if marker == nil {
		marker = ErrCapability
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the marker carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrDependency):
		return "dependency"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrCapability):
		return "capability"
	default:
		return "internal"
	}
}

func buildDetail(format, stage, message string) string {
	parts := make([]string, 0, 3)
	if format = strings.TrimSpace(format); format != "" {
		parts = append(parts, format)
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
