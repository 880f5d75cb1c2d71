// Package services defines shared utilities consumed by the pipeline stages
// and the external capability adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, format keys, and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, precondition, dependency, or capability problems.
//   - Remediation hints the CLI prints next to a failed run.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
