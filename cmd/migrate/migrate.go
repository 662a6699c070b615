package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const defaultSource = "file://migrations"

func GetMigrateCmd(dbURL string, logger *slog.Logger) *cobra.Command {
	var (
		down   bool
		source string
	)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrate.New(source, dbURL)
			if err != nil {
				return fmt.Errorf("failed to initialize migrations: %w", err)
			}
			defer m.Close()

			if down {
				err = m.Down()
			} else {
				err = m.Up()
			}

			var dirty migrate.ErrDirty
			switch {
			case errors.Is(err, migrate.ErrNoChange):
				logger.Info("no migrations to apply", slog.Bool("down", down))
				return nil
			case errors.As(err, &dirty):
				return fmt.Errorf("database is dirty at version %d, fix it and force the version manually: %w", dirty.Version, err)
			case err != nil:
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			version, _, _ := m.Version()
			logger.Info("migrations applied", slog.Bool("down", down), slog.Uint64("version", uint64(version)))
			return nil
		},
	}

	migrateCmd.Flags().BoolVarP(&down, "down", "d", false, "Rollback migrations")
	migrateCmd.Flags().StringVar(&source, "source", defaultSource, "Migration source URL")

	return migrateCmd
}
