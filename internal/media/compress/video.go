package compress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"easel/internal/fileutil"
	"easel/internal/logging"
)

// CompressVideo re-encodes a video as VP9-in-WebM at a bitrate adapted from
// the source, scaled down to fit the configured resolution caps. The output
// is kept only when it is strictly smaller than the source; otherwise, and on
// any failure along the way, the original file passes through untouched.
//
// There is no stall detection: a source whose metadata reports a valid
// duration but never decodes to completion keeps the encoder running until
// the caller's context expires.
func (p *Pipeline) CompressVideo(ctx context.Context, path string, progress func(ProgressUpdate)) Outcome {
	info, err := os.Stat(path)
	if err != nil {
		return p.passThrough(path, ReasonProbeFailed, fmt.Errorf("stat source: %w", err))
	}
	inputSize := info.Size()

	probed, err := p.probe(ctx, p.settings.FFprobeBinary, path)
	if err != nil {
		return p.passThrough(path, ReasonProbeFailed, err)
	}
	if !probed.HasVideo() {
		return p.passThrough(path, ReasonNoVideoStream, nil)
	}
	duration := probed.DurationSeconds()
	if duration <= 0 {
		return p.passThrough(path, ReasonProbeFailed, fmt.Errorf("no duration reported for %s", path))
	}
	width, height := probed.VideoDimensions()
	if width <= 0 || height <= 0 {
		return p.passThrough(path, ReasonProbeFailed, fmt.Errorf("no dimensions reported for %s", path))
	}

	targetWidth, targetHeight := TargetDimensions(width, height, p.settings.MaxWidth, p.settings.MaxHeight)
	bitrate := TargetBitrate(inputSize, duration, p.settings.BitrateFactor, p.settings.BitrateFloor, p.settings.BitrateCeil)

	if err := os.MkdirAll(p.stagingDir, 0o755); err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("ensure staging dir: %w", err))
	}
	scratch, err := os.MkdirTemp(p.stagingDir, "encode-")
	if err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("create scratch dir: %w", err))
	}
	// Scratch space is released on every path, success or failure.
	defer os.RemoveAll(scratch)

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	encoded := filepath.Join(scratch, stem+".webm")

	req := EncodeRequest{
		Input:     path,
		Output:    encoded,
		Width:     targetWidth,
		Height:    targetHeight,
		Bitrate:   bitrate,
		FrameRate: p.settings.FrameRate,
		Duration:  duration,
	}
	p.logger.Debug("video encode planned",
		logging.String("input", path),
		logging.Int("target_width", targetWidth),
		logging.Int("target_height", targetHeight),
		logging.Int64("target_bitrate", bitrate),
		logging.Float64("duration_seconds", duration))

	if err := p.encoder.Encode(ctx, req, progress); err != nil {
		return p.passThrough(path, ReasonEncodeFailed, err)
	}

	encodedInfo, err := os.Stat(encoded)
	if err != nil {
		return p.passThrough(path, ReasonEncodeFailed, fmt.Errorf("stat encoded output: %w", err))
	}
	if encodedInfo.Size() >= inputSize {
		p.logger.Info("re-encode did not beat source, keeping original",
			logging.String("input", path),
			logging.Int64("input_bytes", inputSize),
			logging.Int64("encoded_bytes", encodedInfo.Size()))
		return p.passThrough(path, ReasonNotSmaller, nil)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("ensure output dir: %w", err))
	}
	final := fileutil.UniquePath(filepath.Join(p.outputDir, stem+".webm"))
	if err := fileutil.CopyFile(encoded, final); err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("move encoded output: %w", err))
	}
	now := p.now()
	if err := os.Chtimes(final, now, now); err != nil {
		p.logger.Warn("refresh output timestamp", logging.String("output", final), logging.Error(err))
	}

	p.logger.Info("video compressed",
		logging.String("input", path),
		logging.String("output", final),
		logging.Int64("input_bytes", inputSize),
		logging.Int64("output_bytes", encodedInfo.Size()),
		logging.Int64("bitrate", bitrate))

	return Outcome{
		Input:       path,
		Output:      final,
		MIME:        "video/webm",
		InputBytes:  inputSize,
		OutputBytes: encodedInfo.Size(),
		Reason:      ReasonCompressed,
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
