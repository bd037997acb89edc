package setup_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/internal/setup"
	"github.com/jhoicas/cafecraft/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DB: config.DBConfig{
			Driver:        config.DriverSQLite,
			Path:          filepath.Join(dir, "data", "cafecraft.db"),
			BusyTimeoutMS: 5000,
			MaxOpenConns:  4,
		},
		Setup: config.SetupConfig{
			OwnerPassword:    "CafeCraft#Owner1",
			EmployeePassword: "CafeCraft#Staff1",
			Retries:          1,
			SampleMenu:       true,
		},
		ML:       config.MLConfig{ModelPath: filepath.Join(dir, "models", "model.json")},
		Receipts: config.ReceiptsConfig{Dir: filepath.Join(dir, "receipts"), ShopName: "CaféCraft"},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups")},
	}
}

func runSetup(t *testing.T, cfg *config.Config, opts setup.Options) *setup.Report {
	t.Helper()
	rep, err := setup.NewInitializer(cfg, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	return rep
}

func openDB(t *testing.T, cfg *config.Config) (*store.DB, repository.Set) {
	t.Helper()
	db, err := store.Open(context.Background(), cfg.DB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, store.Repos(db)
}

func stepStatus(rep *setup.Report, name string) string {
	for _, s := range rep.Steps {
		if s.Name == name {
			return s.Status
		}
	}
	return ""
}

func TestRun_CreaBaseYDatos(t *testing.T) {
	cfg := testConfig(t)
	rep := runSetup(t, cfg, setup.Options{})

	assert.Equal(t, 1, rep.Attempts)
	assert.Equal(t, setup.StatusCreated, stepStatus(rep, "database"))
	assert.Equal(t, setup.StatusCreated, stepStatus(rep, "users"))
	assert.Equal(t, setup.StatusCreated, stepStatus(rep, "menu"))
	assert.DirExists(t, cfg.Receipts.Dir)
	assert.DirExists(t, cfg.Backup.Dir)
	assert.DirExists(t, filepath.Dir(cfg.ML.ModelPath))

	ctx := context.Background()
	_, repos := openDB(t, cfg)
	users, err := repos.Users.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	n, err := repos.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	v, err := repos.Settings.Get(ctx, setup.SettingSchemaVersion)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, store.SchemaVersion, v.Value)
}

func TestRun_Idempotente(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})
	rep := runSetup(t, cfg, setup.Options{})

	assert.Equal(t, setup.StatusOK, stepStatus(rep, "database"))
	assert.Equal(t, setup.StatusOK, stepStatus(rep, "schema"))
	assert.Equal(t, setup.StatusOK, stepStatus(rep, "users"))
	assert.Equal(t, setup.StatusOK, stepStatus(rep, "menu"))

	ctx := context.Background()
	_, repos := openDB(t, cfg)
	users, err := repos.Users.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	n, err := repos.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestRun_SinDB(t *testing.T) {
	cfg := testConfig(t)
	rep := runSetup(t, cfg, setup.Options{NoDB: true})

	assert.Equal(t, setup.StatusSkipped, stepStatus(rep, "database"))
	assert.NoFileExists(t, cfg.DB.Path)
	assert.DirExists(t, cfg.Receipts.Dir)
}

func TestRun_BaseCorruptaSeRespalda(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755))
	require.NoError(t, os.WriteFile(cfg.DB.Path, []byte(strings.Repeat("esto no es sqlite ", 400)), 0o644))

	rep := runSetup(t, cfg, setup.Options{})

	assert.Equal(t, setup.StatusRepaired, stepStatus(rep, "database"))
	require.NotEmpty(t, rep.BackupPath)
	assert.FileExists(t, rep.BackupPath)
	assert.True(t, strings.HasSuffix(rep.BackupPath, ".bak"))

	_, repos := openDB(t, cfg)
	n, err := repos.Products.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestRun_ReactivaOwner(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})

	ctx := context.Background()
	_, repos := openDB(t, cfg)
	owner, err := repos.Users.GetByUsername(ctx, setup.OwnerUsername)
	require.NoError(t, err)
	owner.IsActive = false
	require.NoError(t, repos.Users.Update(ctx, owner))

	rep := runSetup(t, cfg, setup.Options{})
	assert.Equal(t, setup.StatusRepaired, stepStatus(rep, "owner"))

	n, err := repos.Users.CountActiveByRole(ctx, entity.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_ResetRecreaLaBase(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})

	rep := runSetup(t, cfg, setup.Options{Reset: true})
	assert.Equal(t, setup.StatusRepaired, stepStatus(rep, "reset"))
	assert.FileExists(t, rep.BackupPath)
	assert.Equal(t, setup.StatusCreated, stepStatus(rep, "users"))
}

func TestRun_ReintentosAgotados(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Driver = "oracle"

	_, err := setup.NewInitializer(cfg, nil).Run(context.Background(), setup.Options{Retries: 2, Backoff: time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 intentos")
}

func TestCheck_TodoCorrecto(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})

	db, _ := openDB(t, cfg)
	results, err := setup.NewChecker(db, cfg, time.UTC).Run(context.Background())
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Passed, "%s: %s", r.Name, r.Detail)
	}
	assert.True(t, setup.Passed(results))
	assert.Len(t, results, 6)
}

func TestCheck_ContrasenaCambiada(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})
	cfg.Setup.EmployeePassword = "Otra#Clave99"

	db, _ := openDB(t, cfg)
	results, err := setup.NewChecker(db, cfg, time.UTC).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, setup.Passed(results))
}

func TestCheck_SinTablas(t *testing.T) {
	cfg := testConfig(t)
	db, _ := openDB(t, cfg)

	results, err := setup.NewChecker(db, cfg, time.UTC).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func TestBackup_YRestore(t *testing.T) {
	cfg := testConfig(t)
	runSetup(t, cfg, setup.Options{})
	ctx := context.Background()
	db, repos := openDB(t, cfg)

	res, err := setup.Backup(ctx, db, cfg.Backup.Dir, "")
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
	assert.Equal(t, setup.BackupFileName(time.Now()), filepath.Base(res.Path))
	assert.Greater(t, res.Rows, 0)

	p, err := repos.Products.GetByName(ctx, "Latte")
	require.NoError(t, err)
	require.NotNil(t, p)
	p.IsActive = false
	require.NoError(t, repos.Products.Update(ctx, p))

	rows, err := setup.Restore(ctx, db.DB, res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Rows, rows)

	p, err = repos.Products.GetByName(ctx, "Latte")
	require.NoError(t, err)
	assert.True(t, p.IsActive)
}

func TestRestore_ArchivoInvalido(t *testing.T) {
	cfg := testConfig(t)
	db, _ := openDB(t, cfg)
	path := filepath.Join(t.TempDir(), "x.json.zst")
	require.NoError(t, os.WriteFile(path, []byte("basura"), 0o644))

	_, err := setup.Restore(context.Background(), db.DB, path)
	assert.Error(t, err)
}
