package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/solutions-catalog/internal/app"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

// commandContext carries the logger and config shared by every subcommand.
type commandContext struct {
	envFile string
	log     *logger.Logger
	cfg     app.Config
}

func (c *commandContext) load() error {
	app.LoadDotEnv(c.envFile)
	log, err := app.NewLogger(envOr("LOG_MODE", "development"))
	if err != nil {
		return err
	}
	c.log = log
	c.cfg = app.LoadConfig(log)
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "solutions",
		Short:         "Solutions catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.log != nil {
				ctx.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSeedCommand(ctx))

	return rootCmd
}
