// Package ffmpeg builds encoder invocations and manages the external
// ffmpeg process that consumes raw frames over stdin.
package ffmpeg

import "github.com/rzstudio/abstractgen/internal/encoders"

// Params describes one encoding run.
//
// Render and output resolution may differ: procedural content is rendered at
// a capped height and upscaled by the encoder, which is visually identical
// for mathematical patterns and much faster.
type Params struct {
	// Binary to execute; empty means "ffmpeg" from PATH.
	FFmpegPath string

	// Raw input geometry, as delivered over pipe:0.
	RenderWidth  int
	RenderHeight int

	// Final video geometry. When it differs from the render geometry an
	// upscale filter is inserted.
	OutputWidth  int
	OutputHeight int

	FPS int

	// Target bitrate in Mbps; maxrate and bufsize are derived from it.
	BitrateMbps int

	Encoder encoders.Capability

	// Container is "mp4" or "mov".
	Container string

	OutputPath string
}

// Upscale reports whether the encoder must resize the rendered frames.
func (p Params) Upscale() bool {
	return p.RenderWidth != p.OutputWidth || p.RenderHeight != p.OutputHeight
}
