package root

import (
	"log/slog"

	"github.com/ZainyAct/browser-memory/cmd/migrate"
	"github.com/ZainyAct/browser-memory/config"
	"github.com/ZainyAct/browser-memory/server"
	"github.com/spf13/cobra"
)

func GetRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "browser-memory",
		Short:        "Browsing activity capture and memory service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.RunServer(cfg, logger)
		},
	})

	rootCmd.AddCommand(migrate.GetMigrateCmd(cfg.DB.URL(), logger))

	return rootCmd
}
