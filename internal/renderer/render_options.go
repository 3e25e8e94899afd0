package renderer

import (
	"io"
	"time"
)

// RenderLoopOptions configures RunRenderLoop.
type RenderLoopOptions struct {
	// RefreshRate is how often the renderer is asked for new output.
	RefreshRate time.Duration
	RenderOptions
}

// RenderLoopOption modifies RenderLoopOptions.
type RenderLoopOption func(*RenderLoopOptions)

// WithRefreshRate sets the refresh rate of the render loop.
func WithRefreshRate(refreshRate time.Duration) RenderLoopOption {
	return func(opts *RenderLoopOptions) {
		opts.RefreshRate = refreshRate
	}
}

// WithRenderOptions applies RenderOptions to every frame of the render loop.
func WithRenderOptions(opts ...RenderOption) RenderLoopOption {
	return func(options *RenderLoopOptions) {
		for _, opt := range opts {
			opt(&options.RenderOptions)
		}
	}
}

// RenderOptions configures RenderOnce.
type RenderOptions struct {
	// Writer receives the output, os.Stdout when nil.
	Writer io.Writer
}

// RenderOption modifies RenderOptions.
type RenderOption func(*RenderOptions)

// WithWriter sets the writer for the renderer.
func WithWriter(writer io.Writer) RenderOption {
	return func(opts *RenderOptions) {
		opts.Writer = writer
	}
}
