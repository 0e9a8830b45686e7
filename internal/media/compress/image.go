package compress

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"easel/internal/fileutil"
	"easel/internal/logging"
)

// CompressImage re-encodes a raster image as JPEG at the configured quality
// and keeps the result only when it is smaller than the source. It never
// returns an error: any decode or encode failure yields a pass-through
// outcome so the upload path is never blocked.
func (p *Pipeline) CompressImage(ctx context.Context, path string) Outcome {
	if err := ctx.Err(); err != nil {
		return p.passThrough(path, ReasonEncodeFailed, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return p.passThrough(path, ReasonDecodeFailed, fmt.Errorf("stat source: %w", err))
	}
	inputSize := info.Size()

	file, err := os.Open(path)
	if err != nil {
		return p.passThrough(path, ReasonDecodeFailed, fmt.Errorf("open source: %w", err))
	}
	img, format, err := image.Decode(file)
	file.Close()
	if err != nil {
		return p.passThrough(path, ReasonDecodeFailed, fmt.Errorf("decode %s: %w", path, err))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.settings.ImageQuality}); err != nil {
		return p.passThrough(path, ReasonEncodeFailed, fmt.Errorf("encode jpeg: %w", err))
	}

	if int64(buf.Len()) >= inputSize {
		return p.passThrough(path, ReasonNotSmaller, nil)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("ensure output dir: %w", err))
	}
	final := fileutil.UniquePath(filepath.Join(p.outputDir, fileutil.ReplaceExt(filepath.Base(path), ".jpg")))
	if err := fileutil.WriteFileAtomic(final, buf.Bytes(), 0o644); err != nil {
		return p.passThrough(path, ReasonStagingFailed, fmt.Errorf("write output: %w", err))
	}

	p.logger.Info("image compressed",
		logging.String("input", path),
		logging.String("output", final),
		logging.String("source_format", format),
		logging.Int64("input_bytes", inputSize),
		logging.Int64("output_bytes", int64(buf.Len())))

	return Outcome{
		Input:       path,
		Output:      final,
		MIME:        "image/jpeg",
		InputBytes:  inputSize,
		OutputBytes: int64(buf.Len()),
		Reason:      ReasonCompressed,
	}
}
