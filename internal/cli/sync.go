package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ErrNoIdentity is returned by commands that need the remote mirror but have no token.
var ErrNoIdentity = errors.New("no remote identity: set remote.token or pass --token")

// SyncResult is the sync command's JSON output.
type SyncResult struct {
	ProfileID string `json:"profileId"`
	PlanID    string `json:"planId"`
	Imported  int    `json:"imported"`
	Total     int    `json:"total"`
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var profileID, planID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull one plan's workouts from the remote mirror",
		Long: `Fetch the remote rows of a profile and plan and merge them into the local store.

Sync only adds: local workouts missing from the remote are kept. Remote
failures are reported as zero imported rows, never as an error.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, err := withIdentity(cmd.Context(), a, rootOpts)
			if err != nil {
				return err
			}
			if !a.Mirror.Enabled(ctx) {
				return ErrNoIdentity
			}

			records, imported := a.Workouts.History(ctx, profileID, planID)
			result := SyncResult{ProfileID: profileID, PlanID: planID, Imported: imported, Total: len(records)}
			return emit(cmd, rootOpts, result, func(w io.Writer) {
				fmt.Fprintf(w, "imported %d workout(s), %d in %s/%s\n", imported, len(records), profileID, planID)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "profile id (required)")
	cmd.Flags().StringVar(&planID, "plan", "", "plan id (required)")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}
