package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/pandabuds-shop/internal/config"
	"github.com/stretchr/testify/assert"
)

// writeTempConfig создает временный yaml-файл и возвращает его путь
func writeTempConfig(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoadByPath_Success(t *testing.T) {
	// Устанавливаем обязательные переменные окружения
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("OWNER_EMAIL", "owner@pandabuds.rs")

	content := `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "shop"
migrations:
  path: "./migrations"
rate_limit:
  backend: "redis"
  window: "30s"
  max_requests: 3
  redis_addr: "redis:6379"
mail:
  from: "Shop <shop@example.com>"
metrics:
  enabled: true
`
	cfg := config.MustLoadByPath(writeTempConfig(t, content))

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "mypassword", cfg.Database.Password)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "mysecret", cfg.JWT.Secret)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 3, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "redis:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, "re_test", cfg.Mail.APIKey)
	assert.Equal(t, "Shop <shop@example.com>", cfg.Mail.From)
	assert.Equal(t, "owner@pandabuds.rs", cfg.Mail.OwnerEmail)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")
	t.Setenv("RESEND_API_KEY", "re_test")

	content := `
database:
  user: "postgres"
  name: "shop"
`
	cfg := config.MustLoadByPath(writeTempConfig(t, content))

	// значения по умолчанию совпадают с поведением витрины: 5 заказов в минуту
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "Panda Buds <porudzbine@pandabuds.rs>", cfg.Mail.From)
	assert.Equal(t, "info@pandabuds.rs", cfg.Mail.SupportEmail)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}
