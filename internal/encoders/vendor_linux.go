package encoders

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// detectGPUVendor inspects the PCI bus for a known GPU vendor. Returns
// "nvidia", "amd", "intel" or "" when nothing can be determined.
func detectGPUVendor() string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lspci").Output()
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "vga") && !strings.Contains(lower, "3d controller") && !strings.Contains(lower, "display") {
			continue
		}
		switch {
		case strings.Contains(lower, "nvidia"):
			return "nvidia"
		case strings.Contains(lower, "amd"), strings.Contains(lower, "ati"), strings.Contains(lower, "radeon"):
			return "amd"
		case strings.Contains(lower, "intel"):
			return "intel"
		}
	}
	return ""
}
