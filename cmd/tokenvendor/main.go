// The tokenvendor binary is a loopback sidecar that exchanges an inbound
// bearer credential for a short-lived token scoped to the caller's tenant.
// It listens on 127.0.0.1 only; callers are trusted by network position.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	saashttp "github.com/saasmesh/saasmesh/internal/adapter/http"
	"github.com/saasmesh/saasmesh/internal/config"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/secrets"
	"github.com/saasmesh/saasmesh/internal/server"
	"github.com/saasmesh/saasmesh/internal/vendor"
)

const signingSecretKey = "TOKEN_VENDOR_SECRET"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Logging.Service == "" {
		cfg.Logging.Service = "token-vendor"
	}
	if err := config.RequireService(signingSecretKey, cfg.Vendor.Secret); err != nil {
		return err
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, err := secrets.NewVault(secrets.EnvLoader(signingSecretKey))
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}

	// SIGHUP re-reads the signing secret so the key can be rotated in place.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := vault.Reload(); err != nil {
				log.Error("secret reload failed", "error", err)
				continue
			}
			log.Info("signing secret reloaded")
		}
	}()

	minter := vendor.NewRotatingMinter(vault, signingSecretKey, cfg.Vendor.TTL)
	router := saashttp.NewVendorRouter(&saashttp.VendorHandlers{Provider: minter})

	return server.Run(ctx, "127.0.0.1:"+cfg.Vendor.Port, router, log)
}
