package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// MigrateResult is the migrate command's JSON output.
type MigrateResult struct {
	Version int `json:"version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the local store up to the current data version",
		Long: `Apply any pending local data migrations and stamp the store.

Opening the store always migrates, so this is mostly useful to check the
stamp after copying a store file between machines.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			result := MigrateResult{Version: a.Migrator.MigrateIfNeeded()}
			return emit(cmd, rootOpts, result, func(w io.Writer) {
				fmt.Fprintf(w, "local store at data version %d\n", result.Version)
			})
		},
	}
}
