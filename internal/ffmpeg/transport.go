package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzstudio/abstractgen/internal/logging"
)

// ErrCancelled is returned by Finalize when the cancel check fires during
// the bounded wait and the process had to be killed.
var ErrCancelled = errors.New("encoding cancelled")

const (
	// finalizePoll is the interval between exit checks after input close.
	finalizePoll = 500 * time.Millisecond

	// tailKeep bounds the stderr lines retained for error reporting.
	tailKeep = 50
)

// Process is a running ffmpeg instance fed raw frames over stdin.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu   sync.Mutex
	tail []string

	drained   chan struct{}
	waitErr   chan error
	killed    atomic.Bool
	closeOnce sync.Once

	logger logging.Logger
}

// Start spawns ffmpeg for the given run. The returned Process must be
// finished with Finalize or Kill so the child is reaped.
func Start(p Params) (*Process, error) {
	path := p.FFmpegPath
	if path == "" {
		path = ResolvePath()
	}

	cmd := exec.Command(path, BuildArgs(p)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	proc := &Process{
		cmd:     cmd,
		stdin:   stdin,
		drained: make(chan struct{}),
		waitErr: make(chan error, 1),
		logger:  logging.GetLogger("ffmpeg"),
	}

	go proc.drainStderr(stderr)

	// Reap only after stderr hits EOF; Wait closes the pipes.
	go func() {
		<-proc.drained
		proc.waitErr <- cmd.Wait()
	}()

	return proc, nil
}

// drainStderr continuously consumes diagnostic output so the OS pipe buffer
// never fills and stalls the encoder.
func (p *Process) drainStderr(r io.Reader) {
	defer close(p.drained)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		level, msg := ParseLogLevel(line)
		switch LevelToSlog(level) {
		case slog.LevelError:
			p.logger.Error("ffmpeg: " + msg)
		case slog.LevelWarn:
			p.logger.Warn("ffmpeg: " + msg)
		default:
			p.logger.Debug("ffmpeg: " + msg)
		}

		p.mu.Lock()
		p.tail = append(p.tail, line)
		if len(p.tail) > tailKeep {
			p.tail = p.tail[len(p.tail)-tailKeep:]
		}
		p.mu.Unlock()
	}
}

// WriteFrame pushes one raw frame into the encoder. A write error usually
// means the process died; callers treat it as a stop signal.
func (p *Process) WriteFrame(frame []byte) error {
	_, err := p.stdin.Write(frame)
	return err
}

// CloseInput signals end of input. Safe to call more than once.
func (p *Process) CloseInput() error {
	var err error
	p.closeOnce.Do(func() { err = p.stdin.Close() })
	return err
}

// Finalize waits for the process to exit, polling so the cancel flag keeps
// being honored and the caller can report finalization progress. A non-zero
// exit becomes a hard error carrying the stderr tail.
func (p *Process) Finalize(cancelled func() bool, progress func(elapsed time.Duration)) error {
	start := time.Now()
	ticker := time.NewTicker(finalizePoll)
	defer ticker.Stop()

	for {
		select {
		case err := <-p.waitErr:
			if err == nil {
				return nil
			}
			code := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			}
			return fmt.Errorf("ffmpeg encoding failed (code %d):\n%s", code, p.stderrTail())
		case <-ticker.C:
			if cancelled != nil && cancelled() {
				p.Kill()
				<-p.waitErr
				return ErrCancelled
			}
			if progress != nil {
				progress(time.Since(start))
			}
		}
	}
}

// Kill force-terminates the process. Only valid after cancellation or
// failure has already been decided; normal shutdown goes through
// CloseInput and Finalize.
func (p *Process) Kill() {
	if !p.killed.CompareAndSwap(false, true) {
		return
	}
	_ = p.CloseInput()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// stderrTail returns the last stderr lines, bounded for error messages.
func (p *Process) stderrTail() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tail) == 0 {
		return "Unknown error"
	}
	lines := p.tail
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	joined := strings.Join(lines, "\n")
	if len(joined) > 500 {
		joined = joined[len(joined)-500:]
	}
	return joined
}
