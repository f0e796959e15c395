package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linemk/pandabuds-shop/internal/app"
	"github.com/linemk/pandabuds-shop/internal/app/handlers"
	"github.com/linemk/pandabuds-shop/internal/config"
	"github.com/linemk/pandabuds-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pandabuds-shop/internal/lib/logger"
	"github.com/linemk/pandabuds-shop/internal/lib/logger/handlers/urllog"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	ctx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	// объект приложения: конфиг, БД, лимитер, сервисы
	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	if application.Janitor != nil {
		go application.Janitor.Run(ctx, log, cfg.RateLimit.SweepInterval)
	}

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// витрина: OPTIONS и POST, остальные методы отвечают 405 внутри хендлера
	router.With(handlers.OrderRecoverer(log)).
		HandleFunc("/api/orders", handlers.CreateOrderHandler(log, application.Checkout))

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(cfg.JWT.Secret))
		r.Get("/orders", handlers.ListOrdersHandler(log, application.Admin))
		r.Get("/orders/{id}", handlers.GetOrderHandler(log, application.Admin))
		r.Patch("/orders/{id}/status", handlers.UpdateOrderStatusHandler(log, application.Admin))
	})

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.HandlerFor(application.Registry, promhttp.HandlerOpts{}))
	}

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
