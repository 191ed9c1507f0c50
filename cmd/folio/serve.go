package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hrygo/folio/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with a JSON API over its content.",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, s, logger, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			srv, err := server.NewServer(ctx, p, s, logger)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(ctx)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down", slog.String("reason", context.Cause(ctx).Error()))
				srv.Shutdown(context.Background())
				return <-errCh
			}
		},
	}
}
