// Package config loads, normalizes, and validates Easel configuration.
//
// Configuration is TOML with a fixed search order: an explicit --config path,
// then ~/.config/easel/config.toml, then ./easel.toml, falling back to
// compiled defaults when no file exists. Every path field is tilde-expanded
// and made absolute during load so downstream code never deals with relative
// paths.
//
// Keep new settings here rather than as command flags when they describe
// durable environment facts (binaries, directories, credentials) instead of
// per-invocation choices.
package config
