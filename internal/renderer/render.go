package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/sync/errgroup"
)

// Renderer writes a human readable view of some state to a writer.
type Renderer interface {
	Render(ctx context.Context, writer io.Writer) error
}

// DefaultRefreshRate is the refresh rate of RunRenderLoop without
// WithRefreshRate.
var DefaultRefreshRate = 200 * time.Millisecond

// RenderOnce calls Renderer.Render once.
// If no writer is provided, it defaults to os.Stdout.
func RenderOnce(ctx context.Context, renderer Renderer, opts ...RenderOption) error {
	options := &RenderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if renderer == nil {
		return errors.New("renderer cannot be nil")
	}
	if options.Writer == nil {
		options.Writer = os.Stdout
	}

	if err := renderer.Render(ctx, options.Writer); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}

// RunRenderLoop renders in place until ctx is cancelled. Previous output is
// erased with cursor movements before changed output is written, unchanged
// output is not rewritten. The returned function waits for the loop; it
// yields nil when the loop was stopped through ctx.
// If no writer is provided, it defaults to os.Stdout.
// If no refresh rate is provided, it defaults to DefaultRefreshRate.
func RunRenderLoop(ctx context.Context, renderer Renderer, opts ...RenderLoopOption) func() error {
	options := &RenderLoopOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if renderer == nil {
		return func() error {
			return errors.New("renderer cannot be nil")
		}
	}
	if options.RefreshRate <= 0 {
		options.RefreshRate = DefaultRefreshRate
	}
	if options.Writer == nil {
		options.Writer = os.Stdout
	}
	slog.DebugContext(ctx, "starting live rendering", slog.Duration("refreshRate", options.RefreshRate))

	out := &screen{writer: options.Writer}
	var eg errgroup.Group
	eg.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Join(err, fmt.Errorf("render loop panicked: %v", r))
			}
		}()
		return renderLoop(ctx, renderer, out, options.RefreshRate)
	})
	return eg.Wait
}

func renderLoop(ctx context.Context, renderer Renderer, out *screen, refreshRate time.Duration) error {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	if err := out.refresh(ctx, renderer); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			// last frame, rendered with a live context
			return out.refresh(context.WithoutCancel(ctx), renderer)
		case <-ticker.C:
			if err := out.refresh(ctx, renderer); err != nil {
				return err
			}
		}
	}
}

// screen tracks what the render loop has written so far.
type screen struct {
	writer io.Writer
	lines  int
	last   string
}

func (s *screen) refresh(ctx context.Context, renderer Renderer) error {
	var frame bytes.Buffer
	if err := RenderOnce(ctx, renderer, WithWriter(&frame)); err != nil {
		return err
	}
	output := frame.String()
	if output == s.last {
		return nil
	}

	var erase strings.Builder
	for range s.lines {
		erase.WriteString(text.CursorUp.Sprint())
		erase.WriteString(text.EraseLine.Sprint())
	}
	if _, err := io.WriteString(s.writer, erase.String()+output); err != nil {
		return fmt.Errorf("error writing live output: %w", err)
	}
	s.last = output
	s.lines = strings.Count(output, "\n")
	return nil
}
