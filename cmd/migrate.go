package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/solutions-catalog/internal/app"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			cfg.AutoMigrate = true
			store, err := app.OpenStore(ctx.log, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			ctx.log.Info("Schema migrated", "driver", store.Driver())
			return nil
		},
	}
}
