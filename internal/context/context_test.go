package context

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	v1 "github.com/skipfinder/skipfinder/configuration/v1"
)

func TestWithConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		config *v1.Config
	}{
		{name: "basic config", config: &v1.Config{Format: "json", Concurrency: 2}},
		{name: "empty config", config: &v1.Config{}},
		{name: "nil config", config: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			ctx := WithConfiguration(context.Background(), tt.config)

			sfctx := FromContext(ctx)
			r.NotNil(sfctx, "context should be available")
			r.Equal(tt.config, sfctx.Configuration())
		})
	}
}

func TestConfigurationFrom(t *testing.T) {
	r := require.New(t)
	r.Equal(&v1.Config{}, ConfigurationFrom(context.Background()))

	cfg := &v1.Config{OutputDir: "reports"}
	r.Same(cfg, ConfigurationFrom(WithConfiguration(context.Background(), cfg)))
}

func TestNilContext(t *testing.T) {
	r := require.New(t)
	var nilCtx *Context
	r.Nil(nilCtx.Configuration())
	var nilStdCtx context.Context
	r.Nil(FromContext(nilStdCtx))
}

func TestWithConfigurationReusesContext(t *testing.T) {
	r := require.New(t)
	ctx := WithConfiguration(context.Background(), &v1.Config{Format: "text"})
	first := FromContext(ctx)

	updated := WithConfiguration(ctx, &v1.Config{Format: "json"})
	r.Same(first, FromContext(updated))
	r.Equal("json", first.Configuration().Format)
}

func TestRegister(t *testing.T) {
	r := require.New(t)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	Register(cmd)
	r.NotNil(FromContext(cmd.Context()))

	existing := FromContext(cmd.Context())
	Register(cmd)
	r.Same(existing, FromContext(cmd.Context()))
}

func TestConcurrentAccess(t *testing.T) {
	ctx := WithConfiguration(context.Background(), &v1.Config{Format: "text"})
	sfctx := FromContext(ctx)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sfctx.Configuration()
		}()
		go func() {
			defer wg.Done()
			WithConfiguration(ctx, &v1.Config{Concurrency: i + 1})
		}()
	}
	wg.Wait()
	require.NotNil(t, sfctx.Configuration())
}
