// Package compress shrinks images and videos ahead of upload.
//
// The pipeline is a best-effort optimization layered under a
// correctness-critical upload path: every failure mode, from a bad probe to a
// mid-run encoder crash, degrades to "use the original file" instead of
// surfacing an error. Callers inspect the Outcome's Reason when they care why
// a file passed through.
//
// Images are re-encoded as JPEG at a fixed quality. Videos are re-encoded as
// VP9-in-WebM by an external ffmpeg process at a bitrate adapted from the
// source, scaled to fit the configured resolution caps, and kept only when
// the result is strictly smaller than the source.
package compress
