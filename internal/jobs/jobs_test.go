package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rzstudio/abstractgen/internal/pipeline"
)

const jobTOML = `
output_path = "/tmp/out.mp4"
pattern = "plasma_field"
overlay = "film_grain"
colors = ["#1a2b3c", "#4d5e6f", "#708192", "#a3b4c5"]
width = 1920
height = 1080
fps = 30
duration = 5
format = "mp4"
bitrate = 20
`

func writeJobFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeJobFile(t, t.TempDir(), "job.toml", jobTOML)

	job, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if job.Pattern != "plasma_field" || job.Overlay != "film_grain" {
		t.Errorf("pattern/overlay = %q/%q", job.Pattern, job.Overlay)
	}
	if job.TotalFrames() != 150 {
		t.Errorf("TotalFrames = %d", job.TotalFrames())
	}
	if len(job.Colors) != 4 {
		t.Errorf("colors = %v", job.Colors)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeJobFile(t, t.TempDir(), "bad.toml", "not [valid toml")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestWatcherQueuesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeJobFile(t, dir, "pending.toml", jobTOML)
	writeJobFile(t, dir, "notes.txt", "ignore me")

	w := NewWatcher(dir, WithDebounce(20*time.Millisecond))
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	select {
	case got := <-w.C():
		if got != path {
			t.Errorf("queued %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("existing job file was not queued")
	}
}

func TestWatcherPicksUpDroppedFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, WithDebounce(20*time.Millisecond))
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	path := writeJobFile(t, dir, "new.toml", jobTOML)

	select {
	case got := <-w.C():
		if got != path {
			t.Errorf("queued %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("dropped job file was not queued")
	}
}

type fakeSubmitter struct {
	mu      sync.Mutex
	jobs    []pipeline.Job
	fail    bool
	genErr  error
	cancels int
}

func (f *fakeSubmitter) Generate(job pipeline.Job, _ pipeline.ProgressFunc, done pipeline.DoneFunc) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	if f.genErr != nil {
		return f.genErr
	}
	go func() {
		if f.fail {
			done(false, "Error: boom")
		} else {
			done(true, "Video saved to:\n"+job.OutputPath)
		}
	}()
	return nil
}

func (f *fakeSubmitter) Cancel() {
	f.mu.Lock()
	f.cancels++
	f.mu.Unlock()
}

func TestRunnerMarksDone(t *testing.T) {
	dir := t.TempDir()
	path := writeJobFile(t, dir, "job.toml", jobTOML)

	sub := &fakeSubmitter{}
	r := NewRunner(sub)
	r.runOne(context.Background(), path)

	if len(sub.jobs) != 1 {
		t.Fatalf("submitted %d jobs", len(sub.jobs))
	}
	if _, err := os.Stat(path + ".done"); err != nil {
		t.Error("job file was not renamed to .done")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original job file still present")
	}
}

func TestRunnerMarksFailed(t *testing.T) {
	tests := []struct {
		name string
		sub  *fakeSubmitter
		toml string
	}{
		{"job failure", &fakeSubmitter{fail: true}, jobTOML},
		{"rejected submission", &fakeSubmitter{genErr: errors.New("invalid job")}, jobTOML},
		{"unparseable file", &fakeSubmitter{}, "not [valid toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeJobFile(t, t.TempDir(), "job.toml", tt.toml)
			NewRunner(tt.sub).runOne(context.Background(), path)

			if _, err := os.Stat(path + ".failed"); err != nil {
				t.Error("job file was not renamed to .failed")
			}
		})
	}
}

func TestRunnerProcessStopsOnContext(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewRunner(sub)

	ctx, cancel := context.WithCancel(context.Background())
	paths := make(chan string)

	stopped := make(chan struct{})
	go func() {
		r.Process(ctx, paths)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not stop on context cancellation")
	}
	if sub.cancels == 0 {
		t.Error("active generator was not cancelled on shutdown")
	}
}
