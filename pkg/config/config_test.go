package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.DB.PreferIPv4)
	assert.Equal(t, "Rs.", cfg.Document.Currency)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45")
	t.Setenv("HTTP_READ_TIMEOUT", "2s")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("DB_PREFER_IPV4", "true")
	t.Setenv("SELLER_NAME", "Sanket Enterprises")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.DB.PreferIPv4)
	assert.Equal(t, "Sanket Enterprises", cfg.Document.SellerName)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "billing", Password: "p@ss:word", DBName: "gst_billing", SSLMode: "disable"}
	assert.Equal(t, "postgres://billing:p%40ss%3Aword@db:5432/gst_billing?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", c.ConnectionString())
}
