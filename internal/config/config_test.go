package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "sessionid", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "none", cfg.EventsBroker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SeedProducts)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("DATABASE_DRIVER", "POSTGRES")
	v.Set("DATABASE_DSN", "host=db user=shop dbname=shop")
	v.Set("SESSION_BACKEND", "redis")
	v.Set("EVENTS_BROKER", "kafka")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"unknown driver":   func(v *viper.Viper) { v.Set("DATABASE_DRIVER", "oracle") },
		"empty dsn":        func(v *viper.Viper) { v.Set("DATABASE_DSN", "") },
		"empty secret":     func(v *viper.Viper) { v.Set("JWT_SECRET", "") },
		"unknown sessions": func(v *viper.Viper) { v.Set("SESSION_BACKEND", "cookie") },
		"redis no addr": func(v *viper.Viper) {
			v.Set("SESSION_BACKEND", "redis")
			v.Set("REDIS_ADDR", "")
		},
		"unknown broker": func(v *viper.Viper) { v.Set("EVENTS_BROKER", "nats") },
		"kafka no topic": func(v *viper.Viper) {
			v.Set("EVENTS_BROKER", "kafka")
			v.Set("KAFKA_TOPIC", "")
		},
		"zero token ttl": func(v *viper.Viper) { v.Set("TOKEN_TTL", "0s") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := newViper()
			mutate(v)
			_, err := config.FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(file, []byte("APP_PORT: \":9090\"\nLOG_LEVEL: debug\n"), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "warn", cfg.LogLevel, "environment must win over the file")
}
