package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/linemk/pandabuds-shop/internal/config"
	"github.com/linemk/pandabuds-shop/internal/lib/metrics"
	"github.com/linemk/pandabuds-shop/internal/mail"
	"github.com/linemk/pandabuds-shop/internal/ratelimit"
	"github.com/linemk/pandabuds-shop/internal/service"
	"github.com/linemk/pandabuds-shop/internal/storage"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Registry *prometheus.Registry

	// Janitor не nil только для лимитера в памяти
	Janitor *ratelimit.Memory

	Checkout service.CheckoutService
	Admin    service.AdminService
}

// DSN собирает строку подключения к postgres из конфига
func DSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// NewApp создаёт новый экземпляр App
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", DSN(cfg.Database))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	app := &App{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Registry: prometheus.NewRegistry(),
	}

	limiter, err := app.newLimiter(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	orderRepo := storage.NewOrderRepository(db)
	m := metrics.New(app.Registry)

	app.Checkout = service.NewCheckoutService(
		log,
		orderRepo,
		limiter,
		mail.NewResendSender(cfg.Mail.APIKey),
		m,
		service.MailSettings{
			From:         cfg.Mail.From,
			OwnerEmail:   cfg.Mail.OwnerEmail,
			SupportEmail: cfg.Mail.SupportEmail,
		},
	)
	app.Admin = service.NewAdminService(log, orderRepo)

	return app, nil
}

// newLimiter выбирает хранилище счетчиков по конфигу
func (a *App) newLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	rl := a.Config.RateLimit

	switch rl.Backend {
	case backendMemory, "":
		a.Janitor = ratelimit.NewMemory(rl.Window, rl.MaxRequests)
		a.Logger.Info("rate limiter: in-memory", slog.Int("max", rl.MaxRequests), slog.Duration("window", rl.Window))
		return a.Janitor, nil
	case backendRedis:
		a.Redis = redis.NewClient(&redis.Options{Addr: rl.RedisAddr})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to ping redis at %s", rl.RedisAddr)
		}
		a.Logger.Info("rate limiter: redis", slog.String("addr", rl.RedisAddr), slog.Int("max", rl.MaxRequests), slog.Duration("window", rl.Window))
		return ratelimit.NewRedis(a.Redis, "orders", rl.Window, rl.MaxRequests), nil
	default:
		return nil, errors.Errorf("unknown rate limit backend %q", rl.Backend)
	}
}

// Close закрывает соединения с БД и redis
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", slog.Any("error", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("failed to close database", slog.Any("error", err))
		}
	}
}
