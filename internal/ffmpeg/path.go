package ffmpeg

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// EnvPath overrides ffmpeg binary resolution.
const EnvPath = "ABSTRACTGEN_FFMPEG"

// ResolvePath locates the ffmpeg binary: the ABSTRACTGEN_FFMPEG environment
// variable wins, then a bundled ffmpeg/ directory next to the executable,
// then PATH. When nothing is found it returns "ffmpeg" and lets the spawn
// fail with a clear error.
func ResolvePath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}

	binary := "ffmpeg"
	if runtime.GOOS == "windows" {
		binary = "ffmpeg.exe"
	}

	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "ffmpeg", binary)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}

	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p
	}
	return "ffmpeg"
}
