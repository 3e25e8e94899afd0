package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/cmd/setup"
	sfctx "github.com/skipfinder/skipfinder/internal/context"
	"github.com/skipfinder/skipfinder/internal/flags/log"
)

// PreRunE configures logging and loads the configuration before any sub
// command runs.
func PreRunE(cmd *cobra.Command, _ []string) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)

	sfctx.Register(cmd)

	if err := setup.Configuration(cmd); err != nil {
		return err
	}

	// inherit IO from parent if exists
	if parent := cmd.Parent(); parent != nil {
		cmd.SetIn(parent.InOrStdin())
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}

	return nil
}
