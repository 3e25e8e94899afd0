package renderer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/require"
)

type staticRenderer struct {
	output atomic.Pointer[string]
	err    error
}

func (s *staticRenderer) set(output string) {
	s.output.Store(&output)
}

func (s *staticRenderer) Render(_ context.Context, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, *s.output.Load())
	return err
}

func TestRenderOnce(t *testing.T) {
	r := require.New(t)

	renderer := &staticRenderer{}
	renderer.set("hello\n")
	var buf bytes.Buffer
	r.NoError(RenderOnce(t.Context(), renderer, WithWriter(&buf)))
	r.Equal("hello\n", buf.String())

	r.Error(RenderOnce(t.Context(), nil, WithWriter(&buf)))

	boom := errors.New("boom")
	err := RenderOnce(t.Context(), &staticRenderer{err: boom}, WithWriter(&buf))
	r.ErrorIs(err, boom)
}

func TestRunRenderLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		renderer := &staticRenderer{}
		renderer.set("Waiting\n")
		buf := &bytes.Buffer{}

		ctx, cancel := context.WithCancel(t.Context())
		wait := RunRenderLoop(ctx, renderer, WithRefreshRate(10*time.Millisecond), WithRenderOptions(WithWriter(buf)))

		time.Sleep(30 * time.Millisecond)
		synctest.Wait()
		r.Equal("Waiting\n", buf.String())
		buf.Reset()

		renderer.set("Found 1 skipped test\nJava\n")
		time.Sleep(30 * time.Millisecond)
		synctest.Wait()
		r.Equal(text.CursorUp.Sprint()+text.EraseLine.Sprint()+"Found 1 skipped test\nJava\n", buf.String())
		buf.Reset()

		// unchanged output is not written again
		time.Sleep(30 * time.Millisecond)
		synctest.Wait()
		r.Empty(buf.String())

		renderer.set("Done\n")
		cancel()
		r.NoError(wait())
		up := text.CursorUp.Sprint() + text.EraseLine.Sprint()
		r.Equal(up+up+"Done\n", buf.String())
	})
}

func TestRunRenderLoopNilRenderer(t *testing.T) {
	wait := RunRenderLoop(t.Context(), nil)
	require.Error(t, wait())
}
