package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"opengoal/internal"
	"opengoal/rpc"

	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the panel backend over a websocket",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		service, closeFn, err := newService()
		if err != nil {
			return err
		}
		defer closeFn()

		registry := rpc.NewRegistry(logger)
		service.Register(registry)

		srv := &http.Server{
			Addr:              listenAddr,
			Handler:           rpc.NewServer(registry, logger).Handler(),
			ReadHeaderTimeout: internal.ValidationTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Backend listening", "addr", listenAddr, "path", rpc.DefaultPath, "home", service.HomeDir())
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("Shutting down backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8765", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
