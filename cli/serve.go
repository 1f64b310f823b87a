package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"secondbrain/internal/ai"
	"secondbrain/pkg/logger"
	"secondbrain/router"
	"secondbrain/socket"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo, closeStore, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := repo.EnsureIndexes(ctx); err != nil {
				return err
			}

			client := ai.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Timeout)
			generator := ai.NewGenerator(client, cfg.LLM.Model)

			hub := socket.NewHub(cfg.Server.AllowedOrigins...)
			hubDone := make(chan struct{})
			go func() {
				hub.Run(ctx)
				close(hubDone)
			}()

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           router.Setup(ctx, cfg.Server, cfg.Auth, repo, generator, hub),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Sugar.Infof("Server listening on :%s (store: %s, model: %s)", cfg.Server.Port, cfg.Store.Driver, cfg.LLM.Model)
				serveErr <- srv.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				stop()
				<-hubDone
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Sugar.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Sugar.Errorf("Server shutdown failed: %v", err)
				return err
			}
			<-hubDone
			logger.Sugar.Info("Server stopped")
			return nil
		},
	}
}
