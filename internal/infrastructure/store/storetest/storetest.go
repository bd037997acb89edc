// Package storetest abre bases SQLite temporales para las pruebas de los casos de uso.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/pkg/config"
)

// Env base temporal con sus repositorios y el ejecutor de transacciones.
type Env struct {
	DB    *store.DB
	Repos repository.Set
	Tx    *store.TxRunner
}

// Config configuración SQLite apuntando a un archivo dentro de t.TempDir().
func Config(t testing.TB) config.DBConfig {
	return config.DBConfig{
		Driver:        config.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "cafecraft.db"),
		BusyTimeoutMS: 5000,
		MaxOpenConns:  4,
	}
}

// Open crea la base, el esquema y registra el cierre al terminar la prueba.
func Open(t testing.TB) *Env {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, Config(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.CreateSchema(ctx, db))
	return &Env{DB: db, Repos: store.Repos(db), Tx: store.NewTxRunner(db.DB)}
}
