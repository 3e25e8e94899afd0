package setup

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/cmd/configuration"
	sfctx "github.com/skipfinder/skipfinder/internal/context"
)

// Configuration loads the configuration of cmd and stores it in the command
// context.
func Configuration(cmd *cobra.Command) error {
	cfg, err := configuration.GetConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	slog.DebugContext(cmd.Context(), "configuration loaded",
		slog.Any("exclude", cfg.Exclude),
		slog.String("format", cfg.Format),
		slog.Int("concurrency", cfg.Concurrency),
	)
	cmd.SetContext(sfctx.WithConfiguration(cmd.Context(), cfg))
	return nil
}
