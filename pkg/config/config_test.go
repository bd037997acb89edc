package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "cafecraft.db", cfg.DB.Path)
	assert.True(t, cfg.DB.IsSQLite())
	assert.Equal(t, "PHP", cfg.App.Currency)
	assert.Equal(t, 0.05, cfg.ML.MinSupport)
	assert.Equal(t, 0.3, cfg.ML.MinConfidence)
	assert.Equal(t, 3, cfg.Setup.Retries)
	assert.NotEmpty(t, cfg.JWT.Secret, "en development se asigna un secreto de desarrollo")
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAFECRAFT_DB_PATH", "/tmp/otra.db")
	t.Setenv("CAFECRAFT_HTTP_PORT", "9090")
	t.Setenv("CAFECRAFT_ML_MIN_SUPPORT", "0.1")
	t.Setenv("CAFECRAFT_APP_LOCALE", "es")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/otra.db", cfg.DB.Path)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	assert.Equal(t, 0.1, cfg.ML.MinSupport)
	assert.Equal(t, "es", cfg.App.Locale)
}

func TestLoad_ArchivoExplicito(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "cafecraft.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_PATH=desde-archivo.db\nRECEIPTS_SHOP_NAME=Kape\n"), 0o600))

	cfg, err := LoadFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "desde-archivo.db", cfg.DB.Path)
	assert.Equal(t, "Kape", cfg.Receipts.ShopName)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAFECRAFT_DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAFECRAFT_APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CAFECRAFT_JWT_SECRET", "corto")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CAFECRAFT_JWT_SECRET", "un-secreto-suficientemente-largo-para-prod")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoad_MonedaInvalida(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAFECRAFT_APP_CURRENCY", "XXXX")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	sqlite := DBConfig{Driver: DriverSQLite, Path: "cafecraft.db", BusyTimeoutMS: 5000}
	assert.Contains(t, sqlite.ConnectionString(), "file:cafecraft.db?")
	assert.Contains(t, sqlite.ConnectionString(), "busy_timeout(5000)")

	pg := DBConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "cafe", Password: "p@ss", DBName: "cafecraft", SSLMode: "disable"}
	assert.Equal(t, "postgres://cafe:p%40ss@db:5432/cafecraft?sslmode=disable", pg.ConnectionString())

	pg.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", pg.ConnectionString())
}
