package encoders

// detectGPUVendor is a no-op on macOS: none of the probed encoders
// (NVENC, AMF, QSV) apply there, so the candidate order is left alone and
// probing falls through to the software encoder.
func detectGPUVendor() string {
	return ""
}
