// Package pipeline renders declarative video jobs: frames are synthesized
// by a worker pool, reordered into strict index order, and streamed into an
// external ffmpeg process.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzstudio/abstractgen/internal/encoders"
	"github.com/rzstudio/abstractgen/internal/events"
	"github.com/rzstudio/abstractgen/internal/ffmpeg"
	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/metrics"
	"github.com/rzstudio/abstractgen/internal/palette"
)

// ErrAlreadyGenerating is returned when a job is submitted while another is
// active. Jobs are rejected, never queued.
var ErrAlreadyGenerating = errors.New("already generating a video")

// Prober resolves the machine's encoder capability.
type Prober interface {
	Probe(forceRecheck bool) encoders.Capability
}

// Transport is the encoder process as the pipeline sees it.
type Transport interface {
	WriteFrame(frame []byte) error
	CloseInput() error
	Finalize(cancelled func() bool, progress func(elapsed time.Duration)) error
	Kill()
}

// TransportFactory spawns an encoder for one run.
type TransportFactory func(p ffmpeg.Params) (Transport, error)

// ProgressFunc receives progress as a 0..1 fraction and a status line.
type ProgressFunc func(fraction float64, status string)

// DoneFunc receives the job outcome exactly once.
type DoneFunc func(success bool, message string)

// Generator runs one video job at a time.
type Generator struct {
	mu         sync.Mutex
	generating bool
	cancel     atomic.Bool

	prober       Prober
	newTransport TransportFactory
	renderFrame  renderFrameFunc
	ffmpegPath   string

	workers       int
	resultTimeout time.Duration
	maxTimeouts   int

	bus     *events.Bus
	metrics *metrics.Metrics
	logger  logging.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithProber injects an encoder capability prober.
func WithProber(p Prober) GeneratorOption {
	return func(g *Generator) { g.prober = p }
}

// WithTransportFactory injects the encoder spawner.
func WithTransportFactory(f TransportFactory) GeneratorOption {
	return func(g *Generator) { g.newTransport = f }
}

// WithWorkerCount overrides the synthesis pool size.
func WithWorkerCount(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithResultTimeout overrides the stalled-worker detection interval.
func WithResultTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.resultTimeout = d }
}

// WithBus attaches an event bus for lifecycle events.
func WithBus(b *events.Bus) GeneratorOption {
	return func(g *Generator) { g.bus = b }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) GeneratorOption {
	return func(g *Generator) { g.metrics = m }
}

// WithFFmpegPath pins the ffmpeg binary instead of resolving it.
func WithFFmpegPath(path string) GeneratorOption {
	return func(g *Generator) { g.ffmpegPath = path }
}

// NewGenerator creates a Generator with the real prober and transport.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		prober: encoders.NewProber(),
		newTransport: func(p ffmpeg.Params) (Transport, error) {
			proc, err := ffmpeg.Start(p)
			if err != nil {
				return nil, err
			}
			return proc, nil
		},
		renderFrame:   renderFrame,
		workers:       defaultWorkerCount(),
		resultTimeout: 15 * time.Second,
		maxTimeouts:   4,
		logger:        logging.GetLogger("pipeline"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsGenerating reports whether a job is active.
func (g *Generator) IsGenerating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generating
}

// Cancel requests a cooperative stop of the active job. Workers, the write
// loop and the finalize wait all observe the flag at their loop boundaries;
// nothing is interrupted mid-operation.
func (g *Generator) Cancel() {
	g.cancel.Store(true)
}

// Generate starts the job in the background. While another job is active
// the request is rejected immediately: done fires with a failure message
// and ErrAlreadyGenerating is returned. Otherwise done fires exactly once
// when the job completes, fails, or is cancelled.
func (g *Generator) Generate(job Job, progress ProgressFunc, done DoneFunc) error {
	g.mu.Lock()
	if g.generating {
		g.mu.Unlock()
		if done != nil {
			done(false, "Already generating a video")
		}
		return ErrAlreadyGenerating
	}

	normalized, err := job.Normalize()
	if err != nil {
		g.mu.Unlock()
		if done != nil {
			done(false, "Error: "+err.Error())
		}
		return err
	}

	g.generating = true
	g.cancel.Store(false)
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.Generating.Set(1)
	}

	go g.session(normalized, progress, done)
	return nil
}

// session owns the job from start to the done callback.
func (g *Generator) session(job Job, progress ProgressFunc, done DoneFunc) {
	defer func() {
		if g.metrics != nil {
			g.metrics.Generating.Set(0)
		}
		g.mu.Lock()
		g.generating = false
		g.mu.Unlock()
	}()

	err := g.run(job, progress)

	switch {
	case g.cancel.Load():
		g.removePartial(job.OutputPath)
		g.finish(job, done, false, true, "Generation cancelled")
	case err != nil:
		g.logger.Error("Video generation error", "output", job.OutputPath, "error", err)
		g.finish(job, done, false, false, "Error: "+err.Error())
	default:
		g.finish(job, done, true, false, "Video saved to:\n"+job.OutputPath)
	}
}

func (g *Generator) finish(job Job, done DoneFunc, success, cancelled bool, message string) {
	if g.metrics != nil {
		outcome := "completed"
		switch {
		case cancelled:
			outcome = "cancelled"
		case !success:
			outcome = "failed"
		}
		g.metrics.JobsTotal.WithLabelValues(outcome).Inc()
	}
	if g.bus != nil {
		g.bus.Publish(events.GenerationDoneEvent{
			Output:    job.OutputPath,
			Success:   success,
			Message:   message,
			Cancelled: cancelled,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
	if done != nil {
		done(success, message)
	}
}

// removePartial deletes the partially written output after cancellation.
func (g *Generator) removePartial(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		g.logger.Warn("Failed to remove partial output", "path", path, "error", err)
	}
}

// run performs the synthesis-reorder-encode pass. A nil return with the
// cancel flag set means the run was stopped, not that it succeeded.
func (g *Generator) run(job Job, progress ProgressFunc) error {
	report := func(frac float64, status string) {
		if progress != nil {
			progress(frac, status)
		}
		if g.bus != nil {
			g.bus.Publish(events.GenerationProgressEvent{
				Output:   job.OutputPath,
				Fraction: frac,
				Status:   status,
			})
		}
	}

	probeStart := time.Now()
	_, fromCache := cachedCapability(g.prober)
	cap := g.prober.Probe(false)
	if g.metrics != nil {
		g.metrics.ProbeDuration.Observe(time.Since(probeStart).Seconds())
	}
	if g.bus != nil {
		g.bus.Publish(events.EncoderProbedEvent{
			Encoder:   cap.Name,
			Label:     cap.Label,
			HWAccel:   cap.HWAccel,
			FromCache: fromCache,
		})
	}

	report(0, fmt.Sprintf("Starting encoder (%s)...", cap.Label))

	colors, err := palette.ParsePalette(job.Colors)
	if err != nil {
		return err
	}

	transport, err := g.newTransport(job.EncodeParams(cap, g.ffmpegPath))
	if err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	total := job.TotalFrames()
	rw, rh := job.RenderSize()
	g.logger.Info("Generation started",
		"output", job.OutputPath, "pattern", job.Pattern, "overlay", job.Overlay,
		"render", fmt.Sprintf("%dx%d", rw, rh), "target", fmt.Sprintf("%dx%d", job.Width, job.Height),
		"frames", total, "encoder", cap.Name)
	if g.bus != nil {
		g.bus.Publish(events.GenerationStartedEvent{
			Output:       job.OutputPath,
			Pattern:      job.Pattern,
			Overlay:      job.Overlay,
			TotalFrames:  total,
			EncoderLabel: cap.Label,
			Timestamp:    time.Now().Format(time.RFC3339),
		})
	}

	start := time.Now()

	tasks := make(chan frameTask, total)
	results := make(chan frameResult, g.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < g.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.renderWorker(job, rw, rh, colors, tasks, results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for i := 0; i < total; i++ {
		tasks <- frameTask{idx: i, t: float64(i) / float64(job.FPS)}
	}
	close(tasks)

	writeErr := g.writeInOrder(total, cap.Label, results, transport, report)

	// Keep the result channel flowing so early exit never strands a worker
	// blocked on send.
	go func() {
		for range results {
		}
	}()

	if writeErr != nil {
		transport.Kill()
		return writeErr
	}

	_ = transport.CloseInput()

	if g.cancel.Load() {
		transport.Kill()
		return nil
	}

	report(0.99, "Finalizing video (faststart)...")
	err = transport.Finalize(g.cancel.Load, func(elapsed time.Duration) {
		report(0.99, fmt.Sprintf("Finalizing video... (%ds)", int(elapsed.Seconds())))
	})
	if errors.Is(err, ffmpeg.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	totalTime := time.Since(start)
	if g.metrics != nil {
		g.metrics.EncodeDuration.Observe(totalTime.Seconds())
	}

	if info, statErr := os.Stat(job.OutputPath); statErr == nil {
		mb := float64(info.Size()) / (1024 * 1024)
		report(1.0, fmt.Sprintf("Complete! (%.1f MB in %ds)", mb, int(totalTime.Seconds())))
	} else {
		report(1.0, "Complete!")
	}
	return nil
}

// cachedCapability peeks at a prober's memoized result when it exposes one.
func cachedCapability(p Prober) (encoders.Capability, bool) {
	type cacher interface {
		Cached() (encoders.Capability, bool)
	}
	if c, ok := p.(cacher); ok {
		return c.Cached()
	}
	return encoders.Capability{}, false
}
