package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/url-shorten/internal/container"
	"github.com/serroba/url-shorten/internal/store"
	"go.uber.org/zap"
)

const (
	startupPingTimeout = 5 * time.Second
	shutdownTimeout    = 30 * time.Second
)

func newInjector(options *container.Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.StorePackage(injector)
	container.MessagingPackage(injector)
	container.ServicePackage(injector)
	container.HTTPPackage(injector)

	return injector
}

// build resolves the store, the service and the routes up front so a bad
// configuration fails before the listener opens.
func build(injector *do.Injector, options *container.Options, logger *zap.Logger) (*http.Server, error) {
	urlStore, err := do.Invoke[store.Store](injector)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
	defer cancel()

	if err := urlStore.Ping(ctx); err != nil {
		logger.Warn("store not reachable at startup", zap.String("backend", options.Backend), zap.Error(err))
	}

	if _, err := do.Invoke[huma.API](injector); err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", options.Port),
		Handler:           do.MustInvoke[*chi.Mux](injector),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := newInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			var err error

			server, err = build(injector, options, logger)
			if err != nil {
				logger.Fatal("invalid configuration", zap.Error(err))
			}

			logger.Info("listening",
				zap.String("addr", server.Addr),
				zap.String("backend", options.Backend),
				zap.String("assign", options.AssignMode),
				zap.Int("cache_ttl_seconds", options.CacheTTL),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("http shutdown", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("container shutdown", zap.Error(err))
			}

			logger.Info("stopped")
			_ = logger.Sync()
		})
	})

	cli.Run()
}
