package main

import (
	"context"

	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve exposes /metrics, /health and /favorites until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store, err := r.preferences(ctx)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	checks := map[string]server.Pinger{"preferences": store}
	router := server.NewRouter(r.logger, checks, controller.NewFavorites(store))
	return server.Serve(ctx, addr, router, r.logger)
}
