package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facet/internal/domaincache"
	"facet/internal/platform/config"
	"facet/internal/platform/health"
	"facet/internal/platform/httpserver"
	"facet/internal/platform/logger"
	"facet/internal/platform/metrics"
	"facet/internal/resolver"
	"facet/internal/seeder"
	"facet/internal/site/store"
	"facet/internal/tracing"
	httptransport "facet/internal/transport/http"
	"facet/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Resolution logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing facet",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"positive_ttl", cfg.PositiveTTL,
		"negative_ttl", cfg.NegativeTTL,
	)

	m := metrics.New()
	tracer := tracing.NewOTel()

	cache := domaincache.New(
		domaincache.WithPositiveTTL(cfg.PositiveTTL),
		domaincache.WithNegativeTTL(cfg.NegativeTTL),
		domaincache.WithMetrics(m),
	)

	var (
		contentStore store.ContentStore
		storeCheck   health.CheckFunc
	)
	if cfg.ContentStoreURL != "" {
		client := store.NewClient(cfg.ContentStoreURL,
			store.WithTimeout(cfg.ContentStoreTimeout),
			store.WithBreaker(circuit.New("content-store")),
			store.WithLogger(log),
			store.WithTracer(tracer),
		)
		contentStore = client
		storeCheck = client.Healthy
		log.Info("using cms content store", "url", cfg.ContentStoreURL)
	} else {
		mem := store.NewInMemory(log)
		if err := seeder.New(mem, log).SeedAll(); err != nil {
			log.Error("seeding demo data failed", "error", err)
			os.Exit(1)
		}
		contentStore = mem
		log.Warn("CONTENT_STORE_URL not set, using in-memory content store")
	}

	tenants := resolver.NewTenantResolver(cache, contentStore,
		resolver.WithResolverLogger(log),
		resolver.WithResolverTracer(tracer),
		resolver.WithResolverMetrics(m),
	)
	content := resolver.NewFallbackResolver(contentStore, cache,
		resolver.WithFallbackLogger(log),
		resolver.WithFallbackTracer(tracer),
		resolver.WithFallbackMetrics(m),
	)

	healthHandler := health.New(cfg.Environment)
	if storeCheck != nil {
		healthHandler.RegisterCheck("content_store", storeCheck)
	}

	handler := httptransport.NewHandler(tenants, content, cache, log)
	router := httptransport.NewRouter(handler, healthHandler, log)

	srv := httpserver.New(cfg.Addr, router)

	// Background sweep keeps expired entries from accumulating between requests.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeper := domaincache.NewSweeper(cache,
		domaincache.WithSweepInterval(cfg.SweepInterval),
		domaincache.WithSweeperLogger(log),
	)
	go func() {
		if err := sweeper.Start(sweepCtx); err != nil && err != context.Canceled {
			log.Error("cache sweeper stopped", "error", err)
		}
	}()

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
