package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"alcyxob/gym-tracker/internal/domain"

	"github.com/spf13/cobra"
)

// emit writes v as indented JSON, or calls text for the text format.
func emit(cmd *cobra.Command, opts *RootOptions, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func statusLabel(rec *domain.WorkoutRecord) string {
	switch rec.Status() {
	case domain.StatusDone:
		return "done"
	case domain.StatusSkipped:
		return "skipped"
	default:
		return "-"
	}
}

// shortDate renders a record date as YYYY-MM-DD in UTC, or the raw value when unparseable.
func shortDate(iso string) string {
	t := domain.ParseISO(iso)
	if t.IsZero() {
		return iso
	}
	return t.UTC().Format("2006-01-02")
}

func writeHistory(w io.Writer, records []domain.WorkoutRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no workouts")
		return
	}
	for i := range records {
		rec := &records[i]
		fmt.Fprintf(w, "%s  %s/%s  W%d D%d  %-7s  %s\n",
			shortDate(rec.CreatedAt), rec.ProfileID, rec.PlanID, rec.Week, rec.Day, statusLabel(rec), rec.ID)
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
