// Package encoders empirically determines which hardware H.264 encoder
// works on the current machine.
//
// Checking ffmpeg's -encoders list is not enough: most builds compile in
// h264_nvenc, h264_amf and h264_qsv regardless of what GPU is present. The
// prober encodes a tiny one-frame test clip with each candidate and only an
// encoder that really produced output counts as working.
package encoders

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rzstudio/abstractgen/internal/logging"
)

// Capability is the resolved encoder choice for this machine.
type Capability struct {
	Name    string `json:"name"`    // ffmpeg encoder name, e.g. "h264_nvenc"
	Label   string `json:"label"`   // human-readable, e.g. "NVENC (NVIDIA GPU)"
	HWAccel bool   `json:"hwaccel"`
}

// Software is the universal fallback when no hardware encoder verifies.
var Software = Capability{Name: "libx264", Label: "libx264 (CPU)", HWAccel: false}

// candidate couples an encoder with the minimal preset args that make its
// test encode fast.
type candidate struct {
	name       string
	label      string
	vendor     string
	presetArgs []string
}

// Candidate order is the fallback priority; a GPU vendor hint moves the
// matching entry to the front.
var candidates = []candidate{
	{name: "h264_nvenc", label: "NVENC (NVIDIA GPU)", vendor: "nvidia", presetArgs: []string{"-preset", "p1"}},
	{name: "h264_amf", label: "AMF (AMD GPU)", vendor: "amd", presetArgs: []string{"-quality", "speed"}},
	{name: "h264_qsv", label: "QSV (Intel GPU)", vendor: "intel", presetArgs: []string{"-preset", "veryfast"}},
}

// CommandRunner executes a command and returns its combined output.
// Injectable so tests never spawn real processes.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Prober runs and memoizes the capability detection.
type Prober struct {
	mu     sync.Mutex
	cached *Capability

	ffmpegPath   string
	run          CommandRunner
	vendorHint   func() string
	probeTimeout time.Duration
	logger       logging.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithFFmpegPath overrides the ffmpeg binary used for probing.
func WithFFmpegPath(path string) Option {
	return func(p *Prober) { p.ffmpegPath = path }
}

// WithRunner overrides process execution (used by tests).
func WithRunner(run CommandRunner) Option {
	return func(p *Prober) { p.run = run }
}

// WithVendorHint overrides the GPU vendor query (used by tests).
func WithVendorHint(hint func() string) Option {
	return func(p *Prober) { p.vendorHint = hint }
}

// WithProbeTimeout overrides the per-candidate timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(p *Prober) { p.probeTimeout = d }
}

// NewProber creates a capability prober.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		ffmpegPath:   "ffmpeg",
		run:          execRunner,
		vendorHint:   detectGPUVendor,
		probeTimeout: 10 * time.Second,
		logger:       logging.GetLogger("encoders"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the working encoder for this machine, memoized after the
// first call. forceRecheck bypasses and overwrites the cache. Probe never
// fails: when nothing verifies it returns the software fallback.
func (p *Prober) Probe(forceRecheck bool) Capability {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && !forceRecheck {
		return *p.cached
	}

	cap := p.detect()
	p.cached = &cap
	return cap
}

// Cached reports the memoized capability without triggering a probe.
func (p *Prober) Cached() (Capability, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached == nil {
		return Capability{}, false
	}
	return *p.cached, true
}

// detect runs the full probe sequence. Caller holds the mutex.
func (p *Prober) detect() Capability {
	ordered := make([]candidate, len(candidates))
	copy(ordered, candidates)

	// Best effort vendor hint; failure just keeps the default order
	if vendor := p.vendorHint(); vendor != "" {
		p.logger.Info("GPU vendor detected", "vendor", vendor)
		sort.SliceStable(ordered, func(i, _ int) bool {
			return ordered[i].vendor == vendor
		})
	}

	listing := p.listedEncoders()

	for _, c := range ordered {
		if !strings.Contains(listing, c.name) {
			p.logger.Debug("Encoder not in ffmpeg build, skipping", "encoder", c.name)
			continue
		}
		if p.verify(c) {
			p.logger.Info("Hardware encoder verified", "encoder", c.name, "label", c.label)
			return Capability{Name: c.name, Label: c.label, HWAccel: true}
		}
	}

	p.logger.Info("No working hardware encoder, using software fallback", "encoder", Software.Name)
	return Software
}

// listedEncoders returns the raw `ffmpeg -encoders` output, empty on error.
func (p *Prober) listedEncoders() string {
	ctx, cancel := context.WithTimeout(context.Background(), p.probeTimeout)
	defer cancel()

	out, err := p.run(ctx, p.ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		p.logger.Debug("ffmpeg encoder listing failed", "error", err)
		return ""
	}
	return string(out)
}

// verify test-encodes a single tiny frame with the candidate. A zero exit
// code and a non-empty output file count as working; any failure only
// disqualifies this candidate.
func (p *Prober) verify(c candidate) bool {
	tmpDir, err := os.MkdirTemp("", "encoder_probe")
	if err != nil {
		p.logger.Warn("Failed to create probe temp dir", "error", err)
		return false
	}
	defer os.RemoveAll(tmpDir)

	outFile := filepath.Join(tmpDir, fmt.Sprintf("probe_%s.mp4", c.name))

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=8x8:d=0.04:r=25",
		"-c:v", c.name,
	}
	args = append(args, c.presetArgs...)
	args = append(args, "-pix_fmt", "yuv420p", outFile)

	ctx, cancel := context.WithTimeout(context.Background(), p.probeTimeout)
	defer cancel()

	out, err := p.run(ctx, p.ffmpegPath, args...)
	if err != nil {
		p.logger.Info("Encoder listed but failed test encode",
			"encoder", c.name, "error", err, "output", tail(string(out), 200))
		return false
	}

	info, statErr := os.Stat(outFile)
	return statErr == nil && info.Size() > 0
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var defaultProber = NewProber()

// Probe detects the working encoder using the process-wide shared cache.
func Probe(forceRecheck bool) Capability {
	return defaultProber.Probe(forceRecheck)
}
