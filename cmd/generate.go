// Package cmd holds the cobra subcommands attached to the root CLI.
package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/palette"
	"github.com/rzstudio/abstractgen/internal/pipeline"
	"github.com/rzstudio/abstractgen/internal/render"
)

// CreateGenerateCmd creates the one-shot generate command.
func CreateGenerateCmd() *cobra.Command {
	var (
		output     string
		pattern    string
		overlay    string
		colors     []string
		harmony    string
		width      int
		height     int
		fps        int
		duration   int
		format     string
		bitrate    int
		ffmpegPath string
		preview    string
		logLevel   string
		logJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one abstract background video",
		Long: `Synthesizes frames in parallel from the chosen pattern and palette, ` +
			`streams them to ffmpeg in strict order, and writes a finished H.264 video. ` +
			`When no colors are given a palette is generated from the harmony.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{Level: logLevel, Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("generate")

			if len(colors) == 0 {
				colors = palette.Harmony(harmony, nil)
				logger.Info("Generated palette", "harmony", harmony, "colors", strings.Join(colors, " "))
			}

			if preview != "" {
				if err := writePreview(preview, pattern, overlay, colors, width, height); err != nil {
					fmt.Fprintln(os.Stderr, "Error: "+err.Error())
					os.Exit(1)
				}
				fmt.Println("Preview saved to:\n" + preview)
				return
			}

			job := pipeline.Job{
				OutputPath: output,
				Pattern:    pattern,
				Overlay:    overlay,
				Colors:     colors,
				Width:      width,
				Height:     height,
				FPS:        fps,
				Duration:   duration,
				Format:     format,
				Bitrate:    bitrate,
			}

			gen := pipeline.NewGenerator(pipeline.WithFFmpegPath(ffmpegPath))

			// Ctrl-C cancels cooperatively; the partial file is removed.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				logger.Warn("Interrupt received, cancelling")
				gen.Cancel()
			}()

			doneCh := make(chan bool, 1)
			err := gen.Generate(job, func(_ float64, status string) {
				fmt.Printf("\r%-100s", status)
			}, func(success bool, message string) {
				fmt.Println()
				if success {
					fmt.Println(message)
				} else {
					fmt.Fprintln(os.Stderr, message)
				}
				doneCh <- success
			})
			if err != nil {
				os.Exit(1)
			}
			if !<-doneCh {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "abstract.mp4", "Output video path")
	cmd.Flags().StringVar(&pattern, "pattern", "gradient_flow", "Background pattern (see 'patterns')")
	cmd.Flags().StringVar(&overlay, "overlay", "none", "Overlay effect (see 'patterns')")
	cmd.Flags().StringSliceVar(&colors, "colors", nil, "Four hex colors, e.g. #101820,#2d3a4f,#5c7a99,#a3c6e8")
	cmd.Flags().StringVar(&harmony, "harmony", "random", "Palette harmony used when --colors is omitted")
	cmd.Flags().IntVar(&width, "width", 1920, "Output width")
	cmd.Flags().IntVar(&height, "height", 1080, "Output height")
	cmd.Flags().IntVar(&fps, "fps", 30, "Frames per second")
	cmd.Flags().IntVarP(&duration, "duration", "d", 10, "Duration in seconds")
	cmd.Flags().StringVar(&format, "format", "mp4", "Container format (mp4, mov)")
	cmd.Flags().IntVarP(&bitrate, "bitrate", "b", 20, "Target bitrate in Mbps")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg binary (default: $ABSTRACTGEN_FFMPEG, bundled, then PATH)")
	cmd.Flags().StringVar(&preview, "preview", "", "Write a single preview frame as PNG to this path instead of encoding")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}

// writePreview renders one frame at preview size and writes it as PNG.
func writePreview(path, pattern, overlay string, colors []string, width, height int) error {
	parsed, err := palette.ParsePalette(colors)
	if err != nil {
		return err
	}

	frame, w, h := render.Preview(pattern, overlay, parsed, width, height, 1.0)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4+0] = frame[i*3+0]
		img.Pix[i*4+1] = frame[i*3+1]
		img.Pix[i*4+2] = frame[i*3+2]
		img.Pix[i*4+3] = 255
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
