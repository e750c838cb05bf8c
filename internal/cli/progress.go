package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewProgressCommand creates the progress command and its summary subcommand.
func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	var profileID, exercise string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show weight progress for an exercise",
		Long: `Show the heaviest numeric weight per session for one exercise, oldest first.

Without --exercise, list the exercises that have logged weights.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if exercise == "" {
				names := a.Progress.Exercises(profileID)
				return emit(cmd, rootOpts, names, func(w io.Writer) {
					if len(names) == 0 {
						fmt.Fprintln(w, "no exercises with logged weights")
					}
					for _, name := range names {
						fmt.Fprintln(w, name)
					}
				})
			}

			progress := a.Progress.Progress(profileID, exercise)
			return emit(cmd, rootOpts, progress, func(w io.Writer) {
				if len(progress.Points) == 0 {
					fmt.Fprintf(w, "%s: no numeric weights logged\n", exercise)
					return
				}
				for _, p := range progress.Points {
					fmt.Fprintf(w, "%s  %g\n", shortDate(p.CreatedAt), p.MaxWeight)
				}
				fmt.Fprintf(w, "best: %g\n", progress.Best)
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "profile id (required)")
	cmd.Flags().StringVar(&exercise, "exercise", "", "exercise name")
	_ = cmd.MarkFlagRequired("profile")

	cmd.AddCommand(newProgressSummaryCommand(rootOpts))
	return cmd
}

func newProgressSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	var profileID, planID string

	cmd := &cobra.Command{
		Use:          "summary",
		Short:        "Count trained sessions per exercise for one plan",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			summary := a.Progress.Summary(profileID, planID)
			return emit(cmd, rootOpts, summary, func(w io.Writer) {
				if len(summary) == 0 {
					fmt.Fprintln(w, "no trained sessions")
				}
				for _, s := range summary {
					fmt.Fprintf(w, "%3d  %s  (last %s)\n", s.Count, s.Name, shortDate(s.Last))
				}
			})
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "profile id (required)")
	cmd.Flags().StringVar(&planID, "plan", "", "plan id (required)")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}
