package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mrz1836/adpilot/internal/artifact"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

const kenBurnsFPS = 25

// Renderer turns a still image into a local video file.
type Renderer interface {
	Render(ctx context.Context, imageRef, aspectRatio string) (string, error)
}

// commandFunc runs an external command and returns its combined stderr on failure.
type commandFunc func(ctx context.Context, name string, args ...string) error

// KenBurns renders a slow zoom/pan clip from a still image with ffmpeg. It
// needs no network video generation.
type KenBurns struct {
	ffmpeg  string
	seconds int
	workDir string
	fetcher *artifact.Fetcher
	run     commandFunc
}

// NewKenBurns creates a renderer writing into workDir.
func NewKenBurns(ffmpegPath string, seconds int, workDir string, fetcher *artifact.Fetcher) *KenBurns {
	return &KenBurns{
		ffmpeg:  ffmpegPath,
		seconds: seconds,
		workDir: workDir,
		fetcher: fetcher,
		run:     runCommand,
	}
}

// Render implements Renderer. It returns the path of the rendered mp4.
func (k *KenBurns) Render(ctx context.Context, imageRef, aspectRatio string) (string, error) {
	data, err := k.fetcher.Fetch(ctx, imageRef)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(k.workDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create render directory: %w", err)
	}

	id := domain.NewShortID()
	frame := filepath.Join(k.workDir, id+"-frame"+mimetype.Detect(data).Extension())
	if err := os.WriteFile(frame, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write frame: %w", err)
	}
	defer func() { _ = os.Remove(frame) }()

	out := filepath.Join(k.workDir, id+".mp4")
	if err := k.run(ctx, k.ffmpeg, k.args(frame, out, aspectRatio)...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", aperrors.ErrRenderFailed, err)
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: no output written", aperrors.ErrRenderFailed)
	}
	return out, nil
}

func (k *KenBurns) args(frame, out, aspectRatio string) []string {
	w, h := frameSize(aspectRatio)
	frames := k.seconds * kenBurnsFPS
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
			"zoompan=z='min(zoom+0.0015,1.5)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d,"+
			"format=yuv420p",
		w*2, h*2, w*2, h*2, frames, w, h, kenBurnsFPS)
	return []string{
		"-y", "-loop", "1", "-i", frame,
		"-vf", filter,
		"-t", fmt.Sprint(k.seconds),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		out,
	}
}

func frameSize(aspectRatio string) (int, int) {
	switch aspectRatio {
	case "9:16":
		return 720, 1280
	case "1:1":
		return 1080, 1080
	default:
		return 1280, 720
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- binary path comes from config, args are constructed internally
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s: %w", filepath.Base(name), lastLine(msg), err)
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
