package main

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type runner interface {
	Start(ctx context.Context) error
}

type httpRunner interface {
	Run(ctx context.Context, addr string) error
}

// serve runs the bot and, when api is set, the HTTP server until ctx is
// cancelled or one of them fails.
func serve(ctx context.Context, editor runner, api httpRunner, addr string) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return editor.Start(gCtx)
	})
	if api != nil {
		g.Go(func() error {
			return api.Run(gCtx, addr)
		})
	}

	log.Infow("daily-menu started", "http_addr", addr)
	err := g.Wait()
	log.Infow("daily-menu stopped", "error", err)
	return err
}
