package compress

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildEncodeArgs(t *testing.T) {
	args := buildEncodeArgs(EncodeRequest{
		Input:     "/in/clip.mp4",
		Output:    "/out/clip.webm",
		Width:     1920,
		Height:    1080,
		Bitrate:   933_333,
		FrameRate: 30,
	})

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i /in/clip.mp4",
		"-vf scale=1920:1080",
		"-r 30",
		"-c:v libvpx-vp9",
		"-b:v 933333",
		"-an",
		"-f webm",
		"-progress pipe:1",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "/out/clip.webm" {
		t.Fatalf("output path must be the final argument: %s", joined)
	}
}

func TestBuildEncodeArgsRoundsOddDimensions(t *testing.T) {
	args := buildEncodeArgs(EncodeRequest{Input: "in", Output: "out", Width: 1919, Height: 1079, FrameRate: 30})
	if !strings.Contains(strings.Join(args, " "), "scale=1918:1078") {
		t.Fatalf("odd dimensions not rounded down: %v", args)
	}
}

func TestPercentOf(t *testing.T) {
	if got := percentOf(30*time.Second, 60, false); got != 50 {
		t.Fatalf("expected 50%%, got %v", got)
	}
	if got := percentOf(90*time.Second, 60, false); got != 100 {
		t.Fatalf("expected clamp to 100%%, got %v", got)
	}
	if got := percentOf(0, 0, false); got != 0 {
		t.Fatalf("expected 0%% without duration, got %v", got)
	}
	if got := percentOf(0, 60, true); got != 100 {
		t.Fatalf("done must report 100%%, got %v", got)
	}
}

func TestFFmpegEncodeParsesProgress(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.webm")

	script := strings.Join([]string{
		"printf 'frame=15\\nout_time_us=500000\\nspeed=1.01x\\nprogress=continue\\n'",
		"printf 'frame=30\\nout_time_us=1000000\\nspeed=1.00x\\nprogress=end\\n'",
		"touch " + output,
	}, "; ")

	restore := commandContext
	commandContext = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "/bin/sh", "-c", script)
	}
	defer func() { commandContext = restore }()

	var updates []ProgressUpdate
	encoder := NewFFmpeg("")
	err := encoder.Encode(context.Background(), EncodeRequest{
		Input:    "in.mp4",
		Output:   output,
		Duration: 1.0,
	}, func(u ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 progress updates, got %d", len(updates))
	}
	first, last := updates[0], updates[1]
	if first.Frame != 15 || first.Done {
		t.Fatalf("unexpected first update: %+v", first)
	}
	if first.Percent != 50 {
		t.Fatalf("unexpected first percent: %v", first.Percent)
	}
	if !last.Done || last.Percent != 100 {
		t.Fatalf("unexpected final update: %+v", last)
	}
	if last.Speed != "1.00x" {
		t.Fatalf("unexpected speed: %q", last.Speed)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestFFmpegEncodeSurfacesFailure(t *testing.T) {
	restore := commandContext
	commandContext = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "/bin/sh", "-c", "echo 'Invalid data found when processing input' >&2; exit 1")
	}
	defer func() { commandContext = restore }()

	encoder := NewFFmpeg("")
	err := encoder.Encode(context.Background(), EncodeRequest{Input: "in.mp4", Output: "out.webm"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("stderr detail missing from error: %v", err)
	}
}

func TestFFmpegEncodeValidatesPaths(t *testing.T) {
	encoder := NewFFmpeg("")
	if err := encoder.Encode(context.Background(), EncodeRequest{Output: "out"}, nil); err == nil {
		t.Fatal("expected error for missing input")
	}
	if err := encoder.Encode(context.Background(), EncodeRequest{Input: "in"}, nil); err == nil {
		t.Fatal("expected error for missing output")
	}
}
