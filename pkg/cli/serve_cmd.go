package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quackview/internal/app"
	"quackview/internal/config"
)

func newServeCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QuackView HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = config.LoadDotEnv(".env")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listenAddr
			}

			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			for _, warning := range cfg.Warnings {
				logger.Warn(warning)
			}

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			if err := a.Start(); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           a.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server listening", "addr", cfg.ListenAddr, "env", cfg.Env)
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case sig := <-stop:
				logger.Info("shutting down", "signal", sig.String())
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")

	return cmd
}
