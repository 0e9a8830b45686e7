// Package logging assembles the structured slog loggers used across Easel.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes a component-logger helper so subsystems tag their
// lines uniformly. A no-op logger is provided for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
