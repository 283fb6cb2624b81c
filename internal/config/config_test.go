package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "gimnasio_db", cfg.DatabaseName)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, 20, cfg.ItemsPerPage)
	assert.Equal(t, 7, cfg.EstadoDiasAviso)
}

func TestLoadDesdeEntorno(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_NAME", "gimnasio_test")
	t.Setenv("ESTADO_DIAS_AVISO", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "gimnasio_test", cfg.DatabaseName)
	assert.Equal(t, 15, cfg.EstadoDiasAviso)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.HTTPPort = 70000
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.ItemsPerPage = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.EstadoDiasAviso = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.RateLimitRequests = 0
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", cfg.Location().String())

	cfg.AppTimezone = "Zona/Inexistente"
	assert.NotNil(t, cfg.Location())
}
