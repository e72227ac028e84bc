package cli

import (
	"fmt"
	"path/filepath"

	"catalogue/internal/database"
	"catalogue/internal/repository"
	"catalogue/internal/service"
	"catalogue/internal/storage"
	"catalogue/internal/validation"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// SeedOptions holds the seed command flags.
type SeedOptions struct {
	ImagesDir string
	Migrate   bool

	// FS holds the seed file, its images and the storage root.
	FS afero.Fs
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{FS: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load categories and produits from a YAML file",
		Long: `Load categories and produits from a YAML file in a single transaction.

Every record is validated before anything is written. Image paths in the
file are resolved against --images-dir, which defaults to the directory
holding the seed file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.ImagesDir, "images-dir", "", "directory image paths are relative to")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations first")

	return cmd
}

func runSeed(cmd *cobra.Command, rootOpts *RootOptions, opts *SeedOptions, file string) error {
	f, err := opts.FS.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	seed, err := service.ParseSeed(f)
	f.Close()
	if err != nil {
		return err
	}

	imagesDir := opts.ImagesDir
	if imagesDir == "" {
		imagesDir = filepath.Dir(file)
	}

	db, err := rootOpts.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.Migrate {
		if err := database.RunMigrations(db.DB(), rootOpts.Config.Database.MigrationsDir, rootOpts.Logger); err != nil {
			return err
		}
	}

	uploader := storage.NewUploader(opts.FS, rootOpts.Config.Storage.Root, rootOpts.Logger)
	seeder := service.NewSeeder(
		repository.NewStore(db.DB()),
		uploader,
		afero.NewBasePathFs(opts.FS, imagesDir),
		rootOpts.Logger,
	)

	report, err := seeder.Seed(cmd.Context(), seed)
	if err != nil {
		if violations, ok := validation.AsViolations(err); ok {
			for _, v := range violations {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", v.Field, v.Message)
			}
			return fmt.Errorf("seed rejected: %d invalid value(s)", len(violations))
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categorie(s), %d produit(s), %d image(s)\n",
		report.Categories, report.Produits, report.Images)
	return nil
}
