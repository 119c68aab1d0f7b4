package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"racedash/rest"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := rest.NewApp(a.api, a.loader, a.log)

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("Start http server", slog.String("port", a.cfg.HTTPPort), slog.String("storage", a.cfg.Storage))
				errCh <- app.Listen(":" + a.cfg.HTTPPort)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("error running http server: %w", err)
			case <-ctx.Done():
			}

			a.log.Info("Shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
}
