package compress

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/media/ffprobe"
)

// Reason explains why an Outcome carries the bytes it does.
type Reason string

const (
	// ReasonCompressed means the re-encoded output was smaller and was kept.
	ReasonCompressed Reason = "compressed"
	// ReasonNotSmaller means the re-encode finished but did not beat the source.
	ReasonNotSmaller Reason = "not_smaller"
	// ReasonProbeFailed means source metadata could not be read.
	ReasonProbeFailed Reason = "probe_failed"
	// ReasonNoVideoStream means the container holds no decodable video.
	ReasonNoVideoStream Reason = "no_video_stream"
	// ReasonDecodeFailed means the image could not be decoded.
	ReasonDecodeFailed Reason = "decode_failed"
	// ReasonEncodeFailed means the encoder errored mid-run.
	ReasonEncodeFailed Reason = "encode_failed"
	// ReasonStagingFailed means scratch space could not be prepared.
	ReasonStagingFailed Reason = "staging_failed"
	// ReasonUnsupported means the file type is neither image nor video.
	ReasonUnsupported Reason = "unsupported_type"
)

// Outcome is the result of one compression attempt. Compression is a
// best-effort optimization: every failure mode falls back to the original
// file, so Outcome never represents an error the caller must handle. Output
// equals Input on pass-through.
type Outcome struct {
	Input        string
	Output       string
	MIME         string
	InputBytes   int64
	OutputBytes  int64
	UsedOriginal bool
	Reason       Reason
	// Err records the absorbed cause on pass-through outcomes. Informational only.
	Err error
}

// Saved returns how many bytes the outcome shaved off the source.
func (o Outcome) Saved() int64 {
	if o.UsedOriginal {
		return 0
	}
	return o.InputBytes - o.OutputBytes
}

// Kind classifies an input path for routing.
type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindUnknown Kind = "unknown"
)

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

var videoExts = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// Classify routes a path to the image or video sub-path by extension.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExts[ext]; ok {
		return KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	return KindUnknown
}

func sourceMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := imageExts[ext]; ok {
		return mime
	}
	if mime, ok := videoExts[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// Pipeline shrinks media files ahead of upload. One Pipeline is safe for
// concurrent use; each call stages its own scratch resources.
type Pipeline struct {
	settings   config.Compression
	stagingDir string
	outputDir  string
	logger     *slog.Logger
	encoder    Encoder
	probe      func(ctx context.Context, binary, path string) (ffprobe.Result, error)
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEncoder overrides the video encoder.
func WithEncoder(encoder Encoder) Option {
	return func(p *Pipeline) {
		if encoder != nil {
			p.encoder = encoder
		}
	}
}

// WithProbe overrides the ffprobe runner.
func WithProbe(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) Option {
	return func(p *Pipeline) {
		if probe != nil {
			p.probe = probe
		}
	}
}

// WithClock overrides the pipeline clock.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Pipeline from application configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	settings := config.Default().Compression
	stagingDir := ""
	outputDir := ""
	if cfg != nil {
		settings = cfg.Compression
		stagingDir = cfg.Paths.StagingDir
		outputDir = cfg.Paths.OutputDir
	}

	p := &Pipeline{
		settings:   settings,
		stagingDir: stagingDir,
		outputDir:  outputDir,
		logger:     logging.NewComponentLogger(logger, "compress"),
		encoder:    NewFFmpeg(settings.FFmpegBinary),
		probe:      ffprobe.Inspect,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CompressFile routes path to the image or video sub-path. Unsupported types
// pass through unchanged.
func (p *Pipeline) CompressFile(ctx context.Context, path string, progress func(ProgressUpdate)) Outcome {
	switch Classify(path) {
	case KindImage:
		return p.CompressImage(ctx, path)
	case KindVideo:
		return p.CompressVideo(ctx, path, progress)
	default:
		return p.passThrough(path, ReasonUnsupported, nil)
	}
}

func (p *Pipeline) passThrough(path string, reason Reason, err error) Outcome {
	size := fileSize(path)
	if err != nil {
		p.logger.Debug("using original file",
			logging.String("input", path),
			logging.String("reason", string(reason)),
			logging.Error(err))
	}
	return Outcome{
		Input:        path,
		Output:       path,
		MIME:         sourceMIME(path),
		InputBytes:   size,
		OutputBytes:  size,
		UsedOriginal: true,
		Reason:       reason,
		Err:          err,
	}
}
