package encoders

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// detectGPUVendor queries the video controller name via WMI. Returns
// "nvidia", "amd", "intel" or "" when nothing can be determined.
func detectGPUVendor() string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		"(Get-CimInstance Win32_VideoController).Name").Output()
	if err != nil {
		return ""
	}

	lower := strings.ToLower(string(out))
	switch {
	case strings.Contains(lower, "nvidia"):
		return "nvidia"
	case strings.Contains(lower, "amd"), strings.Contains(lower, "radeon"):
		return "amd"
	case strings.Contains(lower, "intel"):
		return "intel"
	}
	return ""
}
