package preflight

import (
	"context"

	"reelbuild/internal/config"
)

// StatusFromConfig evaluates every check without plan gating, for status
// displays. Binary availability comes from CheckSystemDeps so the encoder is
// never executed here.
func StatusFromConfig(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Output root", cfg.Paths.RootDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckAudioAsset(cfg.Encoding.AudioPath),
		CheckRenderPage(cfg.Render.Page),
	}
	for _, status := range CheckSystemDeps(cfg) {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	return results
}
