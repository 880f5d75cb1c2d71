package preflight

import (
	"context"

	"reelbuild/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
	Err    error
}

// EncoderChecker is the subset of the encoder preflight needs.
type EncoderChecker interface {
	Check(ctx context.Context) error
}

// Target describes what a build will touch.
type Target struct {
	RootDir   string
	AudioPath string
	Encoder   EncoderChecker
}

// Needs gates the checks that only matter when a stage will run.
type Needs struct {
	Audio   bool
	Encoder bool
}

// RunAll executes every applicable check and returns all results.
func RunAll(ctx context.Context, target Target, needs Needs) []Result {
	results := []Result{CheckDirectoryAccess("Output root", target.RootDir)}
	if needs.Audio {
		results = append(results, CheckAudioAsset(target.AudioPath))
	}
	if needs.Encoder {
		results = append(results, CheckEncoder(ctx, target.Encoder))
	}
	return results
}

// Run executes the applicable checks and returns the first failure as a
// precondition error.
func Run(ctx context.Context, target Target, needs Needs) error {
	for _, result := range RunAll(ctx, target, needs) {
		if result.Passed {
			continue
		}
		return result.asError()
	}
	return nil
}

func (r Result) asError() error {
	message := r.Name
	if r.Err == nil && r.Detail != "" {
		message += ": " + r.Detail
	}
	err := services.Wrap(services.ErrPrecondition, "", "", message, r.Err)
	hint := r.Hint
	if hint == "" {
		hint = services.Hint(r.Err)
	}
	return services.WithHint(err, hint)
}
