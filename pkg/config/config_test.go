package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:5173", cfg.HTTP.FrontendURL)
	assert.Empty(t, cfg.JWT.Secret, "sin JWT_SECRET la API queda abierta")
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_AliasPortYNodeEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("FRONTEND_URL", "https://pdv.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.HTTP.Port, "PORT se usa cuando HTTP_PORT no está definido")
	assert.Equal(t, "production", cfg.App.Env)
	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, "https://pdv.example.com", cfg.HTTP.FrontendURL)
}

func TestLoad_HTTPPortTienePrioridad(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTP.Port)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "varejo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/varejo?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestLoad_PostgresOpciones(t *testing.T) {
	t.Setenv("DB_PREFER_IPV4", "true")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("DB_MAX_CONNS", "5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DB.PreferIPv4)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.EqualValues(t, 5, cfg.DB.MaxConns)
}
