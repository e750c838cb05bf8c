package cli

import (
	"fmt"
	"io"
	"os"

	"alcyxob/gym-tracker/internal/storage"

	"github.com/spf13/cobra"
)

// CatalogResult is the catalog refresh JSON output.
type CatalogResult struct {
	Source   string   `json:"source"`
	Profiles []string `json:"profiles"`
	Plans    int      `json:"plans"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the plan catalog",
	}
	cmd.AddCommand(newCatalogRefreshCommand(rootOpts))
	cmd.AddCommand(newCatalogPublishCommand(rootOpts))
	return cmd
}

func newCatalogRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalog from its source into the local cache",
		Long: `Load the catalog from the configured source (file or S3), normalize it
and replace the locally cached copy.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			db, err := a.Catalog.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh catalog: %w", err)
			}

			result := CatalogResult{Source: a.CatalogSource.Describe(), Profiles: []string{}}
			for _, p := range db.Profiles {
				result.Profiles = append(result.Profiles, p.ID)
				result.Plans += len(p.Plans)
			}
			return emit(cmd, rootOpts, result, func(w io.Writer) {
				fmt.Fprintf(w, "catalog refreshed from %s\n", result.Source)
				fmt.Fprintf(w, "profiles: %s (%d plans)\n", joinOrDash(result.Profiles), result.Plans)
			})
		},
	}
}

func newCatalogPublishCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <file>",
		Short: "Upload a catalog file to the configured S3 object",
		Long: `Validate a .json or .yaml catalog file and upload it to s3.bucket_name/s3.catalog_key.

The file must parse as a catalog; an invalid file is never uploaded.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := openConfig(rootOpts)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}

			target, err := storage.NewS3CatalogSource(cfg.S3)
			if err != nil {
				return err
			}
			if err := target.Publish(cmd.Context(), data, storage.FormatFromName(args[0])); err != nil {
				return err
			}
			return emit(cmd, rootOpts, map[string]string{"published": target.Describe()}, func(w io.Writer) {
				fmt.Fprintf(w, "published %s to %s\n", args[0], target.Describe())
			})
		},
	}
}
