package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "test"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			Name:     "propcore",
			User:     "postgres",
			Password: "postgres",
			PoolMin:  2,
			PoolMax:  10,
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

func TestLoad_DefaultsWithPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "propcore", cfg.Database.Name)
	assert.Equal(t, 2, cfg.Database.PoolMin)
	assert.Equal(t, 10, cfg.Database.PoolMax)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.Origins)

	// Default-credential policy ships disabled.
	assert.Empty(t, cfg.Tenancy.DefaultTenantPassword)
	assert.False(t, cfg.Tenancy.SoftDeleteCascade)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "backoffice")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("TENANT_SOFT_DELETE_CASCADE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "backoffice", cfg.Database.Name)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.Origins)
	assert.True(t, cfg.Tenancy.SoftDeleteCascade)
}

func TestValidate_MissingPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Database.PoolMin = 20
	cfg.Database.PoolMax = 10

	err := cfg.Validate()
	assert.ErrorContains(t, err, "DB_POOL_MIN")
}

func TestValidate_NoOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.CORS.Origins = nil

	err := cfg.Validate()
	assert.ErrorContains(t, err, "CORS_ORIGINS")
}

func TestParseOrigins(t *testing.T) {
	assert.Empty(t, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins(" a , b ,"))
}
