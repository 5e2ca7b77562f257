package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "feedline", cfg.AppName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.Equal(t, "engagement-notifications", cfg.RabbitMQNotifyQueue)
	assert.Equal(t, "posts", cfg.ESPostsIndex)
	assert.False(t, cfg.NotifySendEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("NOTIFY_SEND_ENABLED", "true")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.NotifySendEnabled)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 100*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "5433",
		DBName: "feedline", DBSSLMode: "require",
	}
	assert.Equal(t, "postgres://app:pw@db:5433/feedline?sslmode=require", cfg.PostgresDSN())
}

func TestCSVHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: "https://a.example, https://b.example ,",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
