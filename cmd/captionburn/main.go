package main

import (
	"context"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"captionburn/internal/captions"
	"captionburn/internal/config"
	"captionburn/internal/ffmpeg"
	"captionburn/internal/fonts"
	"captionburn/internal/logging"
	"captionburn/internal/render"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "captionburn",
	Short: "captionburn - burn timed captions onto a base video",
	Long:  "Burns a timed caption track onto a looping base video with a replacement audio bed, via an ffmpeg filter graph.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./captionburn.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	renderCmd.Flags().StringVar(&renderKey, "key", "", "logical render key; previous outputs under it are replaced")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(fontsCmd)
}

var renderKey string

var renderCmd = &cobra.Command{
	Use:   "render [caption track] [base video] [audio bed]",
	Short: "Render the caption track onto the base video",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		track, err := captions.LoadTrack(args[0])
		if err != nil {
			return err
		}
		track.ApplyDefaults(
			cfg.Captions.FontFamily,
			cfg.Captions.FontWeight,
			cfg.Captions.FontColor,
			cfg.Captions.FontSizeRatio,
		)

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		invoker := render.NewInvoker(
			log.Logger,
			exec,
			fonts.NewRegistry(cfg.FontsDir),
			render.NewStore(cfg.OutputDir),
			cfg.FFmpeg.Preset,
		)

		artifact, err := invoker.Render(cmd.Context(), render.Job{
			Key:       renderKey,
			Track:     track,
			BasePath:  args[1],
			AudioPath: args[2],
			Progress: func(p *ffmpeg.Progress) {
				log.Debug().
					Int("frame", p.Frame).
					Str("time", p.Time).
					Str("speed", p.Speed).
					Msg("render progress")
			},
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("output", artifact.Path).
			Str("profile", artifact.Profile.String()).
			Dur("duration", artifact.Duration).
			Msg("render complete")

		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [video file]",
	Short: "Show media metadata for a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		log.Info().
			Str("file", info.FilePath).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Dur("duration", info.Duration).
			Str("video_codec", info.VideoCodec).
			Bool("has_audio", info.HasAudio).
			Msg("probe result")

		return nil
	},
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the bundled font table and on-disk availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		registry := fonts.NewRegistry(cfg.FontsDir)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Family", "Weight", "File", "Available"})

		for _, family := range registry.Families() {
			weights := registry.Weights(family)
			keys := make([]string, 0, len(weights))
			for w := range weights {
				keys = append(keys, w)
			}
			sort.Strings(keys)
			for _, weight := range keys {
				path := weights[weight]
				available := "no"
				if _, err := os.Stat(path); err == nil {
					available = "yes"
				}
				t.AppendRow(table.Row{family, weight, path, available})
			}
		}

		t.Render()
		return nil
	},
}
