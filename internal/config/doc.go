// Package config loads, normalizes, and validates reelbuild configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELBUILD_CHROME_PATH. The Config type centralizes every knob the CLI and
// pipeline need, so output roots, renderer settings, and encoder parameters
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
