package cli

import (
	"catalogue/internal/database"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "up",
		Short:        "Apply every pending migration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return database.RunMigrations(db.DB(), rootOpts.Config.Database.MigrationsDir, rootOpts.Logger)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "status",
		Short:        "Print the state of every migration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return database.GetMigrationStatus(db.DB(), rootOpts.Config.Database.MigrationsDir)
		},
	})

	return cmd
}
