package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weatherdash/internal/config"
	"weatherdash/internal/dashboard"
	"weatherdash/internal/httpapi"
	"weatherdash/internal/owm"
	"weatherdash/internal/scheduler"
	"weatherdash/internal/store"
	"weatherdash/internal/weather"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("db open failed", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	repo, err := store.New(db)
	if err != nil {
		slog.Error("db init failed", "error", err)
		os.Exit(1)
	}

	dash := dashboard.NewStore(repo, dashboard.LogNotifier{})
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	dash.Load(loadCtx)
	loadCancel()

	client := owm.New(cfg.OpenWeatherAPIKey, owm.Options{
		Timeout:        cfg.HTTPTimeout,
		GeocodeTimeout: cfg.GeocodeTimeout,
	})
	if !client.Configured() {
		slog.Warn("OPENWEATHER_API_KEY not configured, weather endpoints will serve fallback data")
	}
	svc := weather.NewService(client, cfg.GeocodeCacheTTL, cfg.WeatherCacheTTL)

	refresher := scheduler.New(cfg.Locations, cfg.RefreshInterval, svc)
	if err := refresher.Start(); err != nil {
		slog.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}
	defer refresher.Stop()

	srv := httpapi.NewServer(svc, dash)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(httpapi.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", httpapi.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		srv.RegisterRoutes(r)
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("weatherdash started", "port", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down")
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
