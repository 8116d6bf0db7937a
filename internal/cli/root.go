// Package cli defines the todo-api command tree.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"todo-api/internal/config"
	"todo-api/pkg/logger"
)

type app struct {
	configFile string
	envFile    string
	cfg        *config.Config
}

// NewRootCommand builds the root command. With no subcommand it runs the server.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "todo-api",
		Short:         "Multi-user to-do list HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "optional YAML config file (env vars override it)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newTokenCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	return rootCmd
}

// load reads the dotenv file (never overriding real env vars), then the config.
func (a *app) load() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel)))
	a.cfg = cfg
	return nil
}
