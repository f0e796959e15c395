package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Mail       MailConfig       `yaml:"mail"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

// JWTConfig настройка jwt для админки
type JWTConfig struct {
	Secret string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// RateLimitConfig ограничение частоты заказов с одного адреса.
// Backend: "memory" (на процесс) или "redis" (общий счетчик для всех инстансов).
type RateLimitConfig struct {
	Backend       string        `yaml:"backend" env-default:"memory"`
	Window        time.Duration `yaml:"window" env-default:"60s"`
	MaxRequests   int           `yaml:"max_requests" env-default:"5"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"5m"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

// MailConfig настройка отправки писем через Resend
type MailConfig struct {
	APIKey       string `yaml:"-" env:"RESEND_API_KEY" env-required:"true"`
	From         string `yaml:"from" env-default:"Panda Buds <porudzbine@pandabuds.rs>"`
	OwnerEmail   string `yaml:"owner_email" env:"OWNER_EMAIL"`
	SupportEmail string `yaml:"support_email" env-default:"info@pandabuds.rs"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"PROMETHEUS_ENABLED" env-default:"false"`
	Path    string `yaml:"path" env-default:"/metrics"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}
