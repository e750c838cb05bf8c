// Package cli is the gymctl command tree: operator access to the local store,
// the remote mirror and the plan catalog.
package cli

import (
	"context"
	"fmt"

	"alcyxob/gym-tracker/internal/app"
	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/config"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Format    string // "json" | "text"
	Token     string // overrides remote.token
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for gymctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gymctl",
		Short: "gymctl - workout log maintenance",
		Long:  "Inspect and maintain the local workout log, sync it with the remote mirror and manage the plan catalog.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", ".", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token for the remote mirror (default remote.token)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func openConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.LoadConfig(opts.ConfigDir)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and wires the app. Callers must Close it.
func openApp(ctx context.Context, opts *RootOptions) (*app.App, error) {
	cfg, err := openConfig(opts)
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}

// withIdentity verifies the configured token and attaches the identity to ctx.
// Without a token ctx is returned unchanged and remote calls stay no-ops.
func withIdentity(ctx context.Context, a *app.App, opts *RootOptions) (context.Context, error) {
	token := opts.Token
	if token == "" {
		token = a.Config.Remote.Token
	}
	if token == "" {
		return ctx, nil
	}
	identity, err := a.Verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("remote identity: %w", err)
	}
	return auth.WithIdentity(ctx, identity), nil
}
