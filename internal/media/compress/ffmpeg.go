package compress

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// EncodeRequest describes one video re-encode.
type EncodeRequest struct {
	Input     string
	Output    string
	Width     int
	Height    int
	Bitrate   int64
	FrameRate int
	// Duration of the source in seconds, used to turn encoder time offsets
	// into percentages.
	Duration float64
}

// ProgressUpdate captures encoder progress events.
type ProgressUpdate struct {
	Percent float64
	Frame   int64
	OutTime time.Duration
	Speed   string
	Done    bool
}

// Encoder re-encodes video files.
type Encoder interface {
	Encode(ctx context.Context, req EncodeRequest, progress func(ProgressUpdate)) error
}

// FFmpeg drives an ffmpeg binary to produce VP9-in-WebM output.
type FFmpeg struct {
	binary string
}

// NewFFmpeg constructs an FFmpeg encoder. An empty binary falls back to
// "ffmpeg" from PATH.
func NewFFmpeg(binary string) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// Encode runs ffmpeg and streams progress events parsed from its progress
// output until the encode finishes.
func (e *FFmpeg) Encode(ctx context.Context, req EncodeRequest, progress func(ProgressUpdate)) error {
	if strings.TrimSpace(req.Input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return errors.New("output path required")
	}

	cmd := commandContext(ctx, e.binary, buildEncodeArgs(req)...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	update := ProgressUpdate{}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "frame":
			if frame, err := strconv.ParseInt(value, 10, 64); err == nil {
				update.Frame = frame
			}
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil {
				update.OutTime = time.Duration(us) * time.Microsecond
			}
		case "speed":
			update.Speed = strings.TrimSpace(value)
		case "progress":
			update.Done = value == "end"
			update.Percent = percentOf(update.OutTime, req.Duration, update.Done)
			if progress != nil {
				progress(update)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg encode failed: %w: %s", err, lastLine(detail))
		}
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}
	return nil
}

func buildEncodeArgs(req EncodeRequest) []string {
	// libvpx rejects odd frame sizes with 4:2:0 subsampling.
	width := req.Width &^ 1
	height := req.Height &^ 1
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", req.Input,
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-r", strconv.Itoa(req.FrameRate),
		"-c:v", "libvpx-vp9",
		"-b:v", strconv.FormatInt(req.Bitrate, 10),
		"-pix_fmt", "yuv420p",
		"-an",
		"-f", "webm",
		"-progress", "pipe:1",
		"-nostats",
		req.Output,
	}
}

func percentOf(outTime time.Duration, durationSeconds float64, done bool) float64 {
	if done {
		return 100
	}
	if durationSeconds <= 0 {
		return 0
	}
	percent := outTime.Seconds() / durationSeconds * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return s
}

var _ Encoder = (*FFmpeg)(nil)
