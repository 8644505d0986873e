// Package config loads, normalizes, and validates reel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REEL_NTFY_TOPIC. The Config type centralizes every knob the CLI needs,
// allowing download roots, downloader options, and conversion parameters to
// be discovered in one pass.
//
// A loaded Config is read-only. Per-run overrides from command-line flags are
// merged into request options by the cmd layer and never written back, so a
// single invocation always sees one consistent set of settings.
package config
