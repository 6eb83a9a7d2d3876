// Package main is the catalog server: it serves the product API and runs
// schema migrations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phrazzld/catalog/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootFlags struct {
	configFile string
	envFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing env file is normal outside development.
			if err := godotenv.Load(flags.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load env file %s: %w", flags.envFile, err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "path to config.yaml (default: search . and ./config)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(newServeCommand(&flags), newMigrateCommand(&flags))
	return root
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	var opts []config.Option
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
