package pipeline

import (
	"fmt"
	"runtime"

	"github.com/rzstudio/abstractgen/internal/palette"
	"github.com/rzstudio/abstractgen/internal/render"
)

// frameTask is one frame to synthesize.
type frameTask struct {
	idx int
	t   float64
}

// frameResult carries a synthesized frame back to the coordinator. A nil
// frame with no error is a frame skipped because of cancellation; its index
// still advances the write cursor.
type frameResult struct {
	idx   int
	frame []byte
	err   error
}

// renderFrameFunc synthesizes one frame. Swappable so tests can inject
// failures without a real renderer.
type renderFrameFunc func(r *render.Renderer, o *render.Overlay, pattern, overlay string, t float64) ([]byte, error)

func renderFrame(r *render.Renderer, o *render.Overlay, pattern, overlay string, t float64) ([]byte, error) {
	frame := r.RenderFrame(pattern, t)
	return o.Apply(frame, overlay, t), nil
}

// defaultWorkerCount sizes the pool for CPU-bound pixel synthesis.
func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if n < 2 {
		return 2
	}
	if n > 6 {
		return 6
	}
	return n
}

// synthesize renders one frame, converting a pattern panic into an error so
// a bad frame never takes down the whole process.
func (g *Generator) synthesize(r *render.Renderer, o *render.Overlay, job Job, t float64) (frame []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("frame synthesis panicked: %v", p)
		}
	}()
	return g.renderFrame(r, o, job.Pattern, job.Overlay, t)
}

// renderWorker pulls tasks until the channel closes. Each worker owns its
// renderer and overlay because they precompute per-instance coordinate
// grids. After a synthesis error the worker reports it and exits; remaining
// tasks are left for the coordinator to abandon.
func (g *Generator) renderWorker(job Job, w, h int, colors [palette.PaletteSize]palette.Color, tasks <-chan frameTask, results chan<- frameResult) {
	renderer := render.NewRenderer(w, h, colors)
	overlay := render.NewOverlay(w, h)

	for task := range tasks {
		if g.cancel.Load() {
			results <- frameResult{idx: task.idx}
			continue
		}

		frame, err := g.synthesize(renderer, overlay, job, task.t)
		if err != nil {
			results <- frameResult{idx: task.idx, err: err}
			return
		}

		if g.metrics != nil {
			g.metrics.FramesRendered.Inc()
		}
		results <- frameResult{idx: task.idx, frame: frame}
	}
}
