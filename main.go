package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/rzstudio/abstractgen/cmd"
	"github.com/rzstudio/abstractgen/internal/config"
	"github.com/rzstudio/abstractgen/internal/encoders"
	"github.com/rzstudio/abstractgen/internal/events"
	"github.com/rzstudio/abstractgen/internal/jobs"
	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/metrics"
	"github.com/rzstudio/abstractgen/internal/pipeline"
	"github.com/rzstudio/abstractgen/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Job service settings
	JobsDir        string `help:"Directory watched for *.toml job files" short:"j" default:"jobs" toml:"jobs.dir" env:"JOBS_DIR"`
	JobsDebounceMs int    `help:"Quiet period before a job file is picked up, in milliseconds" default:"1500" toml:"jobs.debounce_ms" env:"JOBS_DEBOUNCE_MS"`

	// Pipeline settings
	Workers    int    `help:"Frame synthesis workers (0 = auto)" default:"0" toml:"pipeline.workers" env:"PIPELINE_WORKERS"`
	FFmpegPath string `help:"Path to the ffmpeg binary" toml:"pipeline.ffmpeg" env:"FFMPEG_PATH"`

	// Metrics settings
	MetricsEnabled bool   `help:"Enable the Prometheus endpoint" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`
	MetricsPort    string `help:"Prometheus listen address" short:"p" default:":9464" toml:"metrics.port" env:"METRICS_PORT"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingPipeline string `help:"Pipeline logging level" default:"info" toml:"logging.pipeline" env:"LOGGING_PIPELINE"`
	LoggingEncoders string `help:"Encoders logging level" default:"info" toml:"logging.encoders" env:"LOGGING_ENCODERS"`
	LoggingFFmpeg   string `help:"FFmpeg output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingJobs     string `help:"Job watcher logging level" default:"info" toml:"logging.jobs" env:"LOGGING_JOBS"`
}

func main() {
	var cli humacli.CLI

	// Root command runs the job-watch service: drop *.toml job files into
	// the jobs directory and they are rendered one at a time.
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"pipeline": opts.LoggingPipeline,
				"encoders": opts.LoggingEncoders,
				"ffmpeg":   opts.LoggingFFmpeg,
				"jobs":     opts.LoggingJobs,
			},
		})
		logger := logging.GetLogger("main")

		bus := events.New()
		m := metrics.New()
		prober := encoders.NewProber()

		gen := pipeline.NewGenerator(
			pipeline.WithProber(prober),
			pipeline.WithBus(bus),
			pipeline.WithMetrics(m),
			pipeline.WithWorkerCount(opts.Workers),
			pipeline.WithFFmpegPath(opts.FFmpegPath),
		)
		watcher := jobs.NewWatcher(opts.JobsDir,
			jobs.WithDebounce(time.Duration(opts.JobsDebounceMs)*time.Millisecond))
		runner := jobs.NewRunner(gen)

		bus.Subscribe(func(e events.GenerationStartedEvent) {
			logger.Info("Job started", "output", e.Output, "pattern", e.Pattern, "encoder", e.EncoderLabel)
		})
		bus.Subscribe(func(e events.GenerationProgressEvent) {
			logger.Debug("Job progress", "output", e.Output, "status", e.Status)
		})
		bus.Subscribe(func(e events.GenerationDoneEvent) {
			if e.Success {
				logger.Info("Job done", "output", e.Output)
			} else {
				logger.Warn("Job not completed", "output", e.Output, "message", e.Message, "cancelled", e.Cancelled)
			}
		})

		var metricsServer *http.Server
		if opts.MetricsEnabled {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			metricsServer = &http.Server{Addr: opts.MetricsPort, Handler: mux}
		}

		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		hooks.OnStart(func() {
			logger.Info("Job service starting",
				"version", version.String(), "jobs_dir", opts.JobsDir, "workers", opts.Workers)

			if err := os.MkdirAll(opts.JobsDir, 0o755); err != nil {
				logger.Error("Failed to create jobs directory", "dir", opts.JobsDir, "error", err)
				os.Exit(1)
			}
			if err := watcher.Start(); err != nil {
				logger.Error("Failed to start job watcher", "error", err)
				os.Exit(1)
			}

			// Warm the encoder cache so the first job starts instantly
			go func() {
				start := time.Now()
				cap := prober.Probe(false)
				m.ProbeDuration.Observe(time.Since(start).Seconds())
				bus.Publish(events.EncoderProbedEvent{
					Encoder: cap.Name,
					Label:   cap.Label,
					HWAccel: cap.HWAccel,
				})
				logger.Info("Encoder ready", "encoder", cap.Name, "label", cap.Label, "hwaccel", cap.HWAccel)
			}()

			if metricsServer != nil {
				go func() {
					logger.Info("Metrics endpoint listening", "addr", opts.MetricsPort)
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Metrics server failed", "error", err)
					}
				}()
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				runner.Process(ctx, watcher.C())
			}()
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping job watcher", "error", stopErr)
			}
			wg.Wait()

			if metricsServer != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if stopErr := metricsServer.Shutdown(shutdownCtx); stopErr != nil {
					logger.Warn("Error stopping metrics server", "error", stopErr)
				}
			}
		})
	})

	root := cli.Root()
	root.Use = "abstractgen"
	root.Version = version.String()
	root.AddCommand(
		cmd.CreateGenerateCmd(),
		cmd.CreateProbeCmd(),
		cmd.CreatePatternsCmd(),
		cmd.CreateUpdateCmd(),
	)

	cli.Run()
}
