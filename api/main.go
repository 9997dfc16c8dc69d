package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/config"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	mw "github.com/rogerio-castellano/vendor-inventory/internal/http/middleware"
	rl "github.com/rogerio-castellano/vendor-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/router"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/redissvc"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// @title Vendor Inventory API
// @version 1.0
// @description Gateway for vendors managing products, SKUs and stock on the inventory API.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	obs.InitLogger()
	if err != nil {
		obs.Logger.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("service_starting", "api_base_url", cfg.APIBaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seq views.Sequencer
	if cfg.RedisAddr == "" {
		memSeq := views.NewMemorySequencer()
		go memSeq.StartCleanupLoop(ctx, time.Hour, views.IdleViewTTL)
		seq = memSeq
	} else {
		redisService, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			obs.Logger.Error("redis_connect_failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisService.Close()
		seq = redisService
	}

	metrics := obs.NewMetrics()
	accessor := session.NewAccessor(session.ContextProvider{}, cfg.IDP.VendorClaim)
	api := client.New(cfg.APIBaseURL, accessor, client.WithObserver(metrics.ObserveUpstream))
	products := client.NewProducts(api)
	inventory := client.NewInventory(api)

	handlers.SetClient(api)
	handlers.SetIdentity(accessor)
	handlers.SetAdjuster(stock.NewAdjuster(accessor, inventory).WithObserver(metrics.ObserveAdjustment))
	handlers.SetUploader(images.NewUploader(accessor, products))
	handlers.SetDashboard(views.NewDashboard(inventory, products))
	handlers.SetTracker(views.NewTracker(seq))
	mw.SetMetrics(metrics)

	limiter := rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)
	router.SetRateLimiter(limiter)
	router.SetMetricsHandler(metrics.Handler())
	router.SetTrustProxy(cfg.TrustProxy)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
