// Package render synthesizes abstract motion-background frames.
//
// A Renderer maps (pattern, time) to an interleaved RGB24 pixel buffer and
// an Overlay maps (buffer, effect, time) to a post-processed buffer. Both
// are deterministic for a given time value and free of shared mutable
// state, but instances precompute resolution-dependent tables and must not
// be shared across goroutines; the render worker pool gives each worker its
// own pair.
package render
