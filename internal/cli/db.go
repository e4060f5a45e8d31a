package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/garnizeh/rentals/internal/seed"
)

// NewDBCommand groups the database lifecycle commands.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Create or drop the database tables",
	}
	cmd.AddCommand(newDBInitCommand(rootOpts))
	cmd.AddCommand(newDBDropCommand(rootOpts))
	return cmd
}

func newDBInitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		seedFile string
		sample   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Apply migrations and make the tables ready",
		Long: `Apply pending migrations and check both tables against the expected
layout. With --seed the given JSON listings are imported, with --sample the
bundled sample listings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := rootOpts.formatter(cmd)
			if seedFile == "" && !sample {
				return out.Message("database ready")
			}

			im, err := a.Seeder()
			if err != nil {
				return err
			}
			var res seed.Result
			if seedFile != "" {
				res, err = im.ImportFile(cmd.Context(), seedFile)
			} else {
				res, err = im.ImportDefault(cmd.Context())
			}
			if err != nil {
				return err
			}
			return out.Seed(res)
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed", "", "import listings from a JSON file")
	cmd.Flags().BoolVar(&sample, "sample", false, "import the bundled sample listings")
	cmd.MarkFlagsMutuallyExclusive("seed", "sample")
	return cmd
}

func newDBDropCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop both tables and every record in them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return WrapExitError(ExitFailure, "refusing to drop tables", errors.New("pass --yes to confirm"))
			}
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Repo.Properties.DropTable(cmd.Context()); err != nil {
				return err
			}
			if err := a.Repo.Users.DropTable(cmd.Context()); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Message("tables dropped")
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the drop")
	return cmd
}
