package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/catalog/internal/platform/logger"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/redact"
)

func newMigrateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <" + strings.Join(postgres.MigrationCommands, "|") + "> [args]",
		Short: "Apply or inspect database schema migrations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args[0]
			if err := postgres.ValidateMigrationCommand(command); err != nil {
				return err
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel, Format: cfg.Server.LogFormat})
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			db, err := postgres.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", redact.DatabaseURL(cfg.Database.URL), err)
			}
			defer db.Close()

			log.Info("running migration", "command", command)
			return postgres.Migrate(cmd.Context(), db, log, command, args[1:]...)
		},
	}
}
