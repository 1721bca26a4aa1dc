package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketfair/catalog/internal/config"
	"github.com/marketfair/catalog/internal/engine"
	"github.com/marketfair/catalog/internal/fx"
	"github.com/marketfair/catalog/internal/handler"
	"github.com/marketfair/catalog/internal/logger"
	"github.com/marketfair/catalog/internal/sample"
	"github.com/marketfair/catalog/internal/service"
	"github.com/marketfair/catalog/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	seedCount := flag.Int("seed", 0, "Populate the catalog with N sample listings per category on startup")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.NewDefault("info", "json")
		fallback.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.LogLevel, cfg.LogFormat)

	// Stores.
	listingStore := store.NewListingStore()
	rateStore := store.NewRateStore()

	// Currency plumbing: rate cache, converter, bulk recalculator.
	rateCache := fx.NewCache(nil)
	converter := fx.NewConverter(rateCache)
	recalculator := fx.NewRecalculator(listingStore, converter, nil, log, cfg.RecalcLogEvery)

	// Distribution engine: seed clock plus the strategy registry.
	clock := engine.NewSeedClock(cfg.SeedWindow, nil)
	registry := engine.NewRegistry(
		engine.NewHashRoundRobin(nil),
		engine.NewTrueRoundRobin(nil),
		engine.NewWeightedRandom(nil),
		engine.NewQuotaBased(nil),
	)

	// Services.
	limits := service.SearchLimits{
		DefaultPageSize:       cfg.DefaultPageSize,
		MaxPageSize:           cfg.MaxPageSize,
		DefaultMaxPerSeller:   cfg.DefaultMaxPerSeller,
		MaxPerSellerCap:       cfg.MaxPerSellerCap,
		MaxRoundRobinCategory: cfg.MaxRoundRobinCategory,
	}
	catalogSvc := service.NewCatalogService(listingStore, registry, limits)
	searchSvc := service.NewSearchService(listingStore, registry, clock, limits)
	rateSvc := service.NewRateService(rateStore, rateCache, nil, nil, log)
	recalcSvc := service.NewRecalcService(recalculator)

	// Router.
	router := handler.NewRouter(catalogSvc, searchSvc, rateSvc, recalcSvc, log)

	// Handle -seed flag: install the default rate table, generate sample
	// listings, and derive their peg prices before serving traffic.
	if *seedCount > 0 {
		ctx := context.Background()
		if _, err := rateSvc.Setup(ctx, nil); err != nil {
			log.Error().Err(err).Msg("failed to install default rates")
			os.Exit(1)
		}
		gen := sample.NewGenerator(uint64(time.Now().UnixNano()), nil)
		stored := gen.Populate(listingStore, *seedCount)
		metrics, err := recalcSvc.Run(ctx, service.RecalcRequest{})
		if err != nil {
			log.Error().Err(err).Msg("failed to derive peg prices for sample listings")
			os.Exit(1)
		}
		log.Info().
			Int("listings", stored).
			Int("converted", metrics.Processed).
			Msg("sample catalog seeded")
	}

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
