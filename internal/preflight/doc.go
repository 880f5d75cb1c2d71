// Package preflight provides readiness checks for the tools, assets, and
// filesystem paths a build depends on.
//
// These checks run in two contexts:
//   - The pipeline calls Run once per build, after planning. Checks are gated
//     by what the plan needs, so a build with nothing to mux never requires the
//     audio asset and a build with nothing to encode never probes ffmpeg.
//   - The CLI "reelbuild doctor" command uses StatusFromConfig to display
//     every check regardless of plan.
package preflight
