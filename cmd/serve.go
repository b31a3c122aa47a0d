package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/solutions-catalog/internal/app"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(runCtx context.Context, ctx *commandContext) error {
	application, err := app.New(runCtx, ctx.log, ctx.cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Start(runCtx); err != nil {
		return err
	}
	return application.Run(runCtx)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
