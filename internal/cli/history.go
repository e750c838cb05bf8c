package cli

import (
	"fmt"
	"io"

	"alcyxob/gym-tracker/internal/domain"

	"github.com/spf13/cobra"
)

// HistoryResult is the history command's JSON output.
type HistoryResult struct {
	Records  []domain.WorkoutRecord `json:"records"`
	Imported int                    `json:"imported"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var profileID, planID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged workouts, newest first",
		Long: `List the workouts of one profile and plan, or of every plan when no scope is given.

With a scope and a remote identity the plan is pulled from the mirror first.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (profileID == "") != (planID == "") {
				return fmt.Errorf("--profile and --plan must be given together")
			}

			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			var result HistoryResult
			if profileID == "" {
				result.Records = a.Workouts.AllHistory()
			} else {
				ctx, err := withIdentity(cmd.Context(), a, rootOpts)
				if err != nil {
					return err
				}
				result.Records, result.Imported = a.Workouts.History(ctx, profileID, planID)
			}

			return emit(cmd, rootOpts, result, func(w io.Writer) {
				if result.Imported > 0 {
					fmt.Fprintf(w, "imported %d workout(s) from the remote mirror\n", result.Imported)
				}
				writeHistory(w, result.Records)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "profile id")
	cmd.Flags().StringVar(&planID, "plan", "", "plan id")
	return cmd
}
