package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	v1 "github.com/skipfinder/skipfinder/configuration/v1"
)

type ctxKey string

const key ctxKey = "github.com/skipfinder/skipfinder/internal/context"

// Context is the skipfinder command line context.
// It contains pointers to centrally managed structures that are created
// once in the root command and read by the sub commands.
// Note that they integrate with context.Context, but are only passed as pointers
// so that access is always done at O(1) lookup time.
type Context struct {
	mu sync.RWMutex

	// configuration is the merged result of the configuration file, the env
	// file and the environment. Flags are applied on top by each command.
	// In case the config is not set, default values should be used.
	configuration *v1.Config
}

// WithConfiguration creates a new context with the given configuration.
// After this function is called, the configuration can be retrieved from the context
// using [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *v1.Config) context.Context {
	ctx, sfctx := retrieveOrCreateContext(ctx)
	sfctx.mu.Lock()
	defer sfctx.mu.Unlock()
	sfctx.configuration = cfg
	return ctx
}

// Register makes sure the command context carries a Context.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreateContext(cmd.Context())
	cmd.SetContext(ctx)
}

func (ctx *Context) Configuration() *v1.Config {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.configuration
}

// FromContext retrieves the skipfinder context from the given context.
// If it does not exist, it returns nil.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// ConfigurationFrom returns the configuration stored in ctx or an empty
// configuration.
func ConfigurationFrom(ctx context.Context) *v1.Config {
	if cfg := FromContext(ctx).Configuration(); cfg != nil {
		return cfg
	}
	return &v1.Config{}
}

// WithContext creates a new context with the given skipfinder context.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return nil
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreateContext(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	sfctx := FromContext(ctx)
	if sfctx == nil {
		sfctx = &Context{}
		ctx = WithContext(ctx, sfctx)
	}
	return ctx, sfctx
}
