package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"simvid/internal/domain"
	"simvid/internal/domain/model"
	"simvid/internal/domain/ports/adapter"
)

var _ adapter.VideoComposer = (*Composer)(nil)

// Composer shells out to ffmpeg. The whole slideshow is expressed as a
// single filter graph: per-image scale/pad to the target canvas, concat,
// optional audio trim/loop, one encode pass.
type Composer struct {
	binary string
	log    *zerolog.Logger
}

func NewComposer(binary string, logger *zerolog.Logger) (*Composer, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("ffmpeg binary not found: %w", err)
	}
	l := logger.With().Str("component", "ffmpeg").Logger()
	return &Composer{binary: binary, log: &l}, nil
}

func (c *Composer) Compose(ctx context.Context, spec adapter.CompositionSpec, onProgress adapter.ProgressFunc) (int64, error) {
	if len(spec.Images) == 0 {
		return 0, domain.ErrSessionEmpty
	}
	if onProgress == nil {
		onProgress = func(int, string, string) {}
	}

	total := len(spec.Images)
	onProgress(10, "processing", fmt.Sprintf("Preparing %d images", total))

	args := buildArgs(spec)
	c.log.Debug().Strs("args", args).Msg("ffmpeg invocation")

	onProgress(60, "concatenating", "Combining images into video")
	if spec.AudioPath != "" {
		onProgress(65, "audio", "Adding audio to video")
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	onProgress(75, "encoding", "Encoding video file")
	videoDuration := spec.Duration * float64(total)
	tracker := newProgressTracker(videoDuration)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if pct, ok := tracker.feed(scanner.Text()); ok {
			onProgress(pct, "encoding", "Encoding video file")
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		msg := lastStderrLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return 0, fmt.Errorf("ffmpeg: %s", msg)
	}

	fi, err := os.Stat(spec.OutputPath)
	if err != nil {
		return 0, fmt.Errorf("output file not created: %w", err)
	}
	c.log.Info().Str("output", spec.OutputPath).Int64("size", fi.Size()).Msg("composition complete")
	return fi.Size(), nil
}

// buildArgs assembles the full command line for one composition.
func buildArgs(spec adapter.CompositionSpec) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostats", "-progress", "pipe:1", "-y"}

	for _, img := range spec.Images {
		args = append(args, "-loop", "1", "-t", formatSeconds(spec.Duration), "-i", img)
	}
	audioIdx := len(spec.Images)
	if spec.AudioPath != "" {
		args = append(args, "-i", spec.AudioPath)
	}

	var graph strings.Builder
	for i := range spec.Images {
		fmt.Fprintf(&graph, "[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1,fps=%d,format=yuv420p",
			i, spec.Width, spec.Height, spec.Width, spec.Height, model.FrameRate)
		if spec.Transition == model.TransitionFade {
			fd := fadeDuration(spec.Duration)
			fmt.Fprintf(&graph, ",fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
				formatSeconds(fd), formatSeconds(spec.Duration-fd), formatSeconds(fd))
		}
		fmt.Fprintf(&graph, "[v%d];", i)
	}
	for i := range spec.Images {
		fmt.Fprintf(&graph, "[v%d]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[vout]", len(spec.Images))

	videoDuration := spec.Duration * float64(len(spec.Images))
	if spec.AudioPath != "" {
		fmt.Fprintf(&graph, ";[%d:a]", audioIdx)
		if spec.Trim != nil && (spec.Trim.Start > 0 || spec.Trim.End > 0) {
			fmt.Fprintf(&graph, "atrim=start=%s", formatSeconds(spec.Trim.Start))
			if spec.Trim.End > spec.Trim.Start {
				fmt.Fprintf(&graph, ":end=%s", formatSeconds(spec.Trim.End))
			}
			graph.WriteString(",asetpts=PTS-STARTPTS,")
		}
		// Loop short audio, then cut to the video length.
		fmt.Fprintf(&graph, "aloop=loop=-1:size=2147483647,atrim=duration=%s,asetpts=PTS-STARTPTS[aout]",
			formatSeconds(videoDuration))
	}

	args = append(args, "-filter_complex", graph.String(), "-map", "[vout]")
	if spec.AudioPath != "" {
		args = append(args, "-map", "[aout]", "-c:a", "aac")
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "medium",
		"-b:v", model.BitrateFor(spec.Width, spec.Height),
		"-r", fmt.Sprintf("%d", model.FrameRate),
		"-movflags", "+faststart",
		spec.OutputPath,
	)
	return args
}

func fadeDuration(perImage float64) float64 {
	return math.Min(0.5, perImage/2)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

func lastStderrLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
