package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signa/internal/devserver"
	"signa/internal/domain"
	"signa/internal/logger"
)

const devSecret = "signa-development-secret"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr          string
		secret        string
		adminEmail    string
		adminPassword string
		logLevel      string
	)
	cmd := &cobra.Command{
		Use:           "signa-devserver",
		Short:         "In-memory Signa API for local development",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logLevel, "console")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			srv, err := devserver.New(devserver.Options{Secret: []byte(secret), Log: log})
			if err != nil {
				return err
			}
			if _, err := srv.AddAccount(domain.UserDraft{
				Name:    "Admin",
				Surname: "Signa",
				Email:   adminEmail,
				Address: "-",
			}, adminPassword); err != nil {
				return fmt.Errorf("seeding admin: %w", err)
			}
			return serve(cmd.Context(), addr, srv.Handler(), log)
		},
	}

	_ = godotenv.Load()
	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", envOr("SIGNA_DEV_ADDR", ":5000"), "listen address")
	fl.StringVar(&secret, "secret", envOr("SIGNA_DEV_SECRET", devSecret), "HS256 token secret")
	fl.StringVar(&adminEmail, "admin-email", "admin@signa.local", "seeded account email (login username)")
	fl.StringVar(&adminPassword, "admin-password", "admin", "seeded account password")
	fl.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("devserver listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("devserver stopped")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
