package jobs

import (
	"context"
	"os"

	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/pipeline"
)

// Submitter starts render jobs. Satisfied by *pipeline.Generator.
type Submitter interface {
	Generate(job pipeline.Job, progress pipeline.ProgressFunc, done pipeline.DoneFunc) error
	Cancel()
}

// Runner consumes job files sequentially through one pipeline instance.
// Processed files are renamed in place (.done / .failed) so a job is never
// picked up twice.
type Runner struct {
	gen    Submitter
	logger logging.Logger
}

// NewRunner creates a sequential job runner.
func NewRunner(gen Submitter) *Runner {
	return &Runner{
		gen:    gen,
		logger: logging.GetLogger("jobs"),
	}
}

// Process drains the path channel until the context ends. One job runs at a
// time; the next file is not touched until the previous job finished. On
// shutdown the active job is cancelled cooperatively.
func (r *Runner) Process(ctx context.Context, paths <-chan string) {
	for {
		select {
		case <-ctx.Done():
			r.gen.Cancel()
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			r.runOne(ctx, path)
		}
	}
}

func (r *Runner) runOne(ctx context.Context, path string) {
	job, err := LoadFile(path)
	if err != nil {
		r.logger.Error("Rejecting job file", "path", path, "error", err)
		r.markProcessed(path, false)
		return
	}

	r.logger.Info("Running job", "path", path, "output", job.OutputPath)

	done := make(chan bool, 1)
	err = r.gen.Generate(job, nil, func(success bool, message string) {
		if success {
			r.logger.Info("Job finished", "path", path, "message", message)
		} else {
			r.logger.Error("Job failed", "path", path, "message", message)
		}
		done <- success
	})
	if err != nil {
		r.markProcessed(path, false)
		return
	}

	select {
	case success := <-done:
		r.markProcessed(path, success)
	case <-ctx.Done():
		r.gen.Cancel()
		success := <-done
		r.markProcessed(path, success)
	}
}

// markProcessed renames the job file so it is not re-run.
func (r *Runner) markProcessed(path string, success bool) {
	suffix := ".done"
	if !success {
		suffix = ".failed"
	}
	if err := os.Rename(path, path+suffix); err != nil {
		r.logger.Warn("Failed to rename processed job file", "path", path, "error", err)
	}
}
