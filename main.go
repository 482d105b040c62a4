package main

// POST /products          – register a product (next sequential number)
// GET  /products/selling  – menu listing (cached when Redis is configured)
// POST /orders/new        – create an order from product numbers
// POST /orders/statistics – mail the sales summary for a day
// GET  /healthz           – liveness

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"cafekiosk/cache"
	"cafekiosk/config"
	"cafekiosk/handler"
	"cafekiosk/mail"
	"cafekiosk/service"
	"cafekiosk/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	st, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if _, err := st.DB.Exec(migrationSQL); err != nil {
		slog.Error("migrations_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations_applied")

	var listingCache service.ListingCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		listingCache = cache.NewProductCache(rdb, cfg.CacheTTL)
		slog.Info("listing_cache_enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	products := service.NewProductService(st, listingCache)
	orders := service.NewOrderService(st, cfg.ReserveAttempts)
	stats := service.NewStatisticsService(st, mail.LogClient{}, cfg.MailFrom)

	h := handler.NewHandler(products, orders, stats)
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.WithRequestID(handler.WithLogging(r)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	slog.Info("shutdown_signal", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http_shutdown_error", "error", err)
	}
	slog.Info("service_stopped")
}
