// Package render drives the external encoder: it assembles the caption
// filter graph, builds the argument list, enforces the single-writer rule
// per render key, and reports the produced artifact.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"captionburn/internal/captions"
	"captionburn/internal/compose"
	"captionburn/internal/ffmpeg"
	"captionburn/internal/fonts"
	"captionburn/pkg/util"
)

// Job describes one render invocation. Each job owns an independent text
// resource directory and output filename, so jobs for different keys can
// run in parallel.
type Job struct {
	Key       string
	Track     *captions.Track
	BasePath  string
	AudioPath string
	Progress  ffmpeg.ProgressFunc
}

// Artifact is a successful render result.
type Artifact struct {
	Path     string
	Profile  compose.Profile
	Duration time.Duration
}

// Invoker orchestrates graph assembly and the blocking encoder call.
type Invoker struct {
	logger  zerolog.Logger
	exec    *ffmpeg.Executor
	fonts   *fonts.Registry
	outputs *Store
	preset  string
}

// NewInvoker wires an invoker from its collaborators.
func NewInvoker(logger zerolog.Logger, exec *ffmpeg.Executor, registry *fonts.Registry, outputs *Store, preset string) *Invoker {
	if preset == "" {
		preset = "medium"
	}
	return &Invoker{
		logger:  logger.With().Str("component", "render").Logger(),
		exec:    exec,
		fonts:   registry,
		outputs: outputs,
		preset:  preset,
	}
}

// Render burns the job's caption track onto the base video with the audio
// bed replacing the original audio. The call blocks until the encoder
// exits; abandoning the context leaves cleanup to the deferred paths but
// no partial artifact is ever reported back.
func (inv *Invoker) Render(ctx context.Context, job Job) (artifact *Artifact, err error) {
	if err := inv.checkPreconditions(job); err != nil {
		return nil, err
	}

	key := job.Key
	if key == "" {
		key = "default"
	}

	info, err := inv.exec.ProbeVideo(ctx, job.BasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: probe base video: %v", ErrProcess, err)
	}

	textDir, err := compose.NewTextDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, textDir.Close())
	}()

	assembler := compose.NewAssembler(inv.logger, inv.fonts, info.Width, info.Height)
	result, err := assembler.Assemble(job.Track, textDir)
	if err != nil {
		return nil, err
	}

	lock, err := inv.outputs.Acquire(key)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, lock.Unlock())
	}()

	if err := inv.outputs.CleanPrevious(key); err != nil {
		return nil, fmt.Errorf("clean previous outputs: %w", err)
	}

	duration := trackDuration(job.Track, info)
	outputPath := inv.outputs.NewOutputPath(key)
	args := inv.buildArguments(job, result, duration, outputPath)

	inv.logger.Info().
		Str("key", key).
		Str("base", job.BasePath).
		Str("audio", job.AudioPath).
		Str("output", outputPath).
		Bool("graph", result.Graph != nil).
		Msg("starting render")

	runOpts := ffmpeg.RunOptions{
		Args:            args,
		ProgressHandler: job.Progress,
		LogHandler: func(line string) {
			inv.logger.Debug().Str("ffmpeg", line).Msg("render output")
		},
	}

	if err := inv.exec.Run(ctx, runOpts); err != nil {
		// Never reference a partial artifact back to the caller.
		util.CleanupFiles(outputPath)
		return nil, fmt.Errorf("%w: %v", ErrProcess, err)
	}

	inv.logger.Info().Str("output", outputPath).Msg("render completed")

	return &Artifact{
		Path:     outputPath,
		Profile:  result.Profile,
		Duration: duration,
	}, nil
}

func (inv *Invoker) checkPreconditions(job Job) error {
	if job.Track == nil {
		return fmt.Errorf("%w: missing caption track", ErrPrecondition)
	}
	if !util.FileExists(job.BasePath) {
		return fmt.Errorf("%w: missing base video %q", ErrPrecondition, job.BasePath)
	}
	if !util.FileExists(job.AudioPath) {
		return fmt.Errorf("%w: missing audio bed %q", ErrPrecondition, job.AudioPath)
	}
	if job.Track.DrawableCount() == 0 {
		return fmt.Errorf("%w: caption track has no drawable cues", ErrPrecondition)
	}
	return nil
}

// buildArguments produces the encoder argument list: loop the base
// template, map the audio bed as the sole output audio, apply the graph
// when one was built, trim to the authoritative duration, and select the
// codec profile the composition requires.
func (inv *Invoker) buildArguments(job Job, result *compose.Result, duration time.Duration, outputPath string) []string {
	args := []string{
		"-stream_loop", "-1",
		"-i", job.BasePath,
		"-i", job.AudioPath,
	}

	if result.Graph != nil {
		args = append(args,
			"-filter_complex", result.FilterComplex,
			"-map", "["+compose.OutputLabel+"]",
		)
	} else {
		args = append(args, "-map", "0:v")
	}
	args = append(args, "-map", "1:a")

	if duration > 0 {
		args = append(args, "-t", util.FormatDuration(duration))
	}

	args = append(args, inv.profileArgs(result.Profile)...)
	args = append(args, "-c:a", "aac", "-b:a", "192k")
	args = append(args, "-movflags", "+faststart")
	args = append(args, outputPath)
	return args
}

// profileArgs maps the compose profile onto encoder parameters. Cutout
// compositions get a near-lossless full-chroma encode; the glyph boundary
// smears under 4:2:0 subsampling.
func (inv *Invoker) profileArgs(profile compose.Profile) []string {
	if profile == compose.ProfileLossless {
		return []string{
			"-c:v", "libx264",
			"-preset", inv.preset,
			"-qp", "0",
			"-pix_fmt", "yuv444p",
			"-color_range", "pc",
		}
	}
	return []string{
		"-c:v", "libx264",
		"-preset", inv.preset,
		"-crf", "23",
		"-pix_fmt", "yuv420p",
	}
}

// trackDuration prefers the track's authoritative duration, falling back
// to the probed base video length.
func trackDuration(track *captions.Track, info *ffmpeg.VideoInfo) time.Duration {
	if track.DurationMs > 0 {
		return time.Duration(track.DurationMs) * time.Millisecond
	}
	return info.Duration
}
