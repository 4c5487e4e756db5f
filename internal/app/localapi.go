package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sh3r4rd/product_uploads/internal/awsclient"
	"github.com/sh3r4rd/product_uploads/internal/config"
	"github.com/sh3r4rd/product_uploads/internal/localapi"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

// RunLocalAPI serves the HTTP functions until SIGINT or SIGTERM.
func RunLocalAPI(cfg *config.LocalAPI) error {
	l := logger.New(cfg.LogLevel)
	ctx := context.Background()

	var opts []awsclient.Option
	if cfg.AccessKey != "" {
		opts = append(opts, awsclient.StaticCredentials(cfg.AccessKey, cfg.SecretKey))
	}

	issuer, err := NewIssuer(ctx, &cfg.Issuer, l, opts...)
	if err != nil {
		return err
	}

	lister, err := NewLister(ctx, &config.Lister{Common: cfg.Common}, l, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	localapi.NewRouter(r, l, cfg.DevUserEmail).Init(issuer.Handle, lister.Handle)

	srv := localapi.NewServer(r, cfg.HTTPPort)

	errCh := make(chan error, 1)
	go func() {
		l.Info("local api listening on port %s", cfg.HTTPPort)
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		l.Error(appErr, "local api failed")
	case s := <-shutdown:
		l.Info("received %s, stopping", s.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		l.Error(err, "local api shutdown")
	}

	return appErr
}
