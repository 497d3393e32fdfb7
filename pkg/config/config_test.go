package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Inventory.Store)
	assert.Equal(t, 5*time.Second, cfg.Inventory.TxTimeout)
	assert.Equal(t, 3, cfg.Inventory.MaxRetries)
	assert.Equal(t, "read_committed", cfg.Inventory.Isolation)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR la cache queda desactivada")
	assert.False(t, cfg.NATS.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Duraciones(t *testing.T) {
	t.Setenv("INVENTORY_TX_TIMEOUT", "250ms")
	t.Setenv("REDIS_STOCK_TTL", "45")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Inventory.TxTimeout)
	assert.Equal(t, 45*time.Second, cfg.Redis.StockTTL, "un entero se toma como segundos")
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "mongo")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("INVENTORY_STORE", "postgres")
	t.Setenv("INVENTORY_ISOLATION", "chaos")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kardex", Password: "p@ss:w/rd", DBName: "kardex", SSLMode: "disable"}
	assert.Equal(t, "postgres://kardex:p%40ss%3Aw%2Frd@db:5432/kardex?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
