// Package main hosts the reelbuild CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into pipeline runs,
// staleness previews, manifest and history inspection, environment checks,
// and configuration scaffolding. Configuration resolution and logger setup
// live here so subcommands can focus on presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through commands or flags.
package main
