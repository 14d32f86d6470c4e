//go:build !linux && !windows && !darwin

package encoders

func detectGPUVendor() string {
	return ""
}
