package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aruth-api/config"
	"aruth-api/logger"
	"aruth-api/routes"
	"aruth-api/utils"

	"github.com/spf13/cobra"
)

// aruth-api serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func newMailer(cfg config.Config) utils.Mailer {
	switch cfg.MailDriver {
	case config.MailPostmark:
		return utils.NewPostmarkMailer(cfg.PostmarkAPIToken, cfg.EmailSender)
	case config.MailSendgrid:
		return utils.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	default:
		return utils.LogMailer{Logger: logger.L}
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Setup(cfg.Production())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens := utils.NewTokenService(cfg.AccessToken, cfg.TokenTTL)
	emailService := utils.NewEmailService(newMailer(cfg))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewHandler(st, tokens, emailService, log, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Aruth server listening", "addr", srv.Addr, "env", cfg.AppEnv, "production", cfg.Production(), "store", cfg.StoreDriver, "mail", cfg.MailDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
