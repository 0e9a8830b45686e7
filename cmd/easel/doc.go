// Package main hosts the Easel CLI entrypoint and command graph.
//
// The Cobra-based command tree compresses media ahead of upload, inspects
// files with ffprobe, manages saved form drafts, and submits prepared media
// to the portfolio API. It centralizes configuration resolution and logging
// setup so subcommands can focus on user experience instead of wiring.
package main
