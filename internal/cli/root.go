package cli

import (
	"fmt"

	"catalogue/internal/config"
	"catalogue/internal/database"
	"catalogue/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global state shared by all commands.
type RootOptions struct {
	EnvFile string

	Config *config.Config
	Logger *zap.Logger

	// OpenDB connects to the database. Swapped in tests.
	OpenDB func(cfg config.DatabaseConfig) (database.Service, error)
}

// NewRootCommand creates the root command for catalogctl.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{OpenDB: database.Open})
}

// NewRootCommandWith creates the root command around preset options.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Catalogue maintenance tasks",
		Long:  "Runs schema migrations and loads categories and produits from seed files.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// load reads the env file, then the configuration, then builds the logger.
func (o *RootOptions) load() error {
	if o.EnvFile != "" {
		// A missing file is fine; the environment may already be set.
		_ = godotenv.Load(o.EnvFile)
	}

	if o.Config == nil {
		o.Config = config.Load()
	}
	if o.Logger == nil {
		log, err := logger.New(o.Config.Server.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		o.Logger = log
	}
	return nil
}

func (o *RootOptions) openDB() (database.Service, error) {
	return o.OpenDB(o.Config.Database)
}
