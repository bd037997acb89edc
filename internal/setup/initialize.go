// Package setup inicializa, repara y verifica la instalación: directorios, base de datos,
// usuarios por defecto, menú de ejemplo y respaldos.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/pkg/config"
	"github.com/jhoicas/cafecraft/pkg/logger"
)

// Claves de settings escritas por setup.
const (
	SettingSchemaVersion = "schema_version"
	SettingShopName      = "shop_name"
	SettingInitializedAt = "initialized_at"
)

// Estados de un paso.
const (
	StatusOK       = "ok"
	StatusCreated  = "created"
	StatusRepaired = "repaired"
	StatusSkipped  = "skipped"
)

// Options flags del comando setup.
type Options struct {
	Retries int  // intentos totales (mínimo 1)
	NoDB    bool // solo directorios y assets
	Reset   bool // respalda y recrea la base
	Backoff time.Duration
}

// Step resultado de un paso de la inicialización.
type Step struct {
	Name   string
	Status string
	Detail string
}

// Report resumen de la ejecución.
type Report struct {
	Attempts   int
	Steps      []Step
	BackupPath string // copia de la base corrupta o reseteada, si la hubo
}

func (r *Report) add(name, status, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Status: status, Detail: detail})
}

// Initializer ejecuta setup/repair.
type Initializer struct {
	cfg   *config.Config
	log   *logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewInitializer construye el inicializador.
func NewInitializer(cfg *config.Config, log *logger.Logger) *Initializer {
	if log == nil {
		log = logger.Nop()
	}
	return &Initializer{cfg: cfg, log: log.Named("setup"), now: time.Now, sleep: sleepCtx}
}

// Run ejecuta la inicialización completa con reintentos y backoff lineal.
// Es idempotente: una segunda ejecución no duplica datos.
func (in *Initializer) Run(ctx context.Context, opts Options) (*Report, error) {
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		rep := &Report{Attempts: attempt}
		lastErr = in.initialize(ctx, opts, rep)
		if lastErr == nil {
			return rep, nil
		}
		in.log.Warn().Err(lastErr).Int("attempt", attempt).Int("retries", retries).Msg("setup falló")
		// un reset solo se hace una vez; los reintentos reparan
		opts.Reset = false
		if attempt < retries {
			if err := in.sleep(ctx, backoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("setup: %d intentos fallidos: %w", retries, lastErr)
}

func (in *Initializer) initialize(ctx context.Context, opts Options, rep *Report) error {
	if err := in.verifyDirectories(rep); err != nil {
		return err
	}
	if opts.NoDB {
		rep.add("database", StatusSkipped, "--no-db")
		return nil
	}

	if in.cfg.DB.IsSQLite() {
		if err := in.prepareSQLiteFile(ctx, opts.Reset, rep); err != nil {
			return err
		}
	}

	db, err := store.Open(ctx, in.cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.Reset && !in.cfg.DB.IsSQLite() {
		if err := store.DropSchema(ctx, db); err != nil {
			return err
		}
		rep.add("reset", StatusRepaired, "tablas eliminadas")
	}

	missing, err := store.MissingTables(ctx, db)
	if err != nil {
		return err
	}
	if err := store.CreateSchema(ctx, db); err != nil {
		return err
	}
	if len(missing) > 0 {
		rep.add("schema", StatusCreated, fmt.Sprintf("%d tablas creadas", len(missing)))
	} else {
		rep.add("schema", StatusOK, "tablas e índices presentes")
	}

	return store.NewTxRunner(db.DB).Run(ctx, func(ctx context.Context, r repository.Set) error {
		return in.seed(ctx, r, rep)
	})
}

func (in *Initializer) seed(ctx context.Context, r repository.Set, rep *Report) error {
	now := in.now().UTC()
	users := DefaultUsers(in.cfg.Setup)

	created, err := seedUsers(ctx, r, users, now)
	if err != nil {
		return err
	}
	if len(created) > 0 {
		rep.add("users", StatusCreated, fmt.Sprintf("%v", created))
	} else {
		rep.add("users", StatusOK, "usuarios por defecto presentes")
	}

	repaired, err := ensureOwner(ctx, r, users[0], now)
	if err != nil {
		return err
	}
	if repaired {
		rep.add("owner", StatusRepaired, "owner activo restaurado")
	} else {
		rep.add("owner", StatusOK, "hay al menos un owner activo")
	}

	owner, err := r.Users.GetByUsername(ctx, OwnerUsername)
	if err != nil {
		return err
	}
	ownerID := ""
	if owner != nil {
		ownerID = owner.ID
	}

	if in.cfg.Setup.SampleMenu {
		n, err := seedMenu(ctx, r, ownerID, now)
		if err != nil {
			return err
		}
		if n > 0 {
			rep.add("menu", StatusCreated, fmt.Sprintf("%d productos de ejemplo", n))
		} else {
			rep.add("menu", StatusOK, "el menú ya tiene productos")
		}
	} else {
		rep.add("menu", StatusSkipped, "menú de ejemplo deshabilitado")
	}

	for k, v := range map[string]string{
		SettingSchemaVersion: store.SchemaVersion,
		SettingShopName:      in.cfg.Receipts.ShopName,
		SettingInitializedAt: now.Format(time.RFC3339),
	} {
		if err := r.Settings.Set(ctx, k, v); err != nil {
			return err
		}
	}
	rep.add("settings", StatusOK, "schema_version "+store.SchemaVersion)

	return audit.Record(ctx, r.Audit, ownerID, entity.AuditSetup, "settings", SettingSchemaVersion, nil, rep.Steps)
}

// verifyDirectories crea (si faltan) y prueba escritura en los directorios de datos.
func (in *Initializer) verifyDirectories(rep *Report) error {
	dirs := []struct{ name, path string }{
		{"receipts_dir", in.cfg.Receipts.Dir},
		{"model_dir", filepath.Dir(in.cfg.ML.ModelPath)},
		{"backup_dir", in.cfg.Backup.Dir},
	}
	if in.cfg.DB.IsSQLite() {
		dirs = append([]struct{ name, path string }{{"data_dir", filepath.Dir(in.cfg.DB.Path)}}, dirs...)
	}
	for _, d := range dirs {
		if d.path == "" {
			continue
		}
		_, statErr := os.Stat(d.path)
		if err := os.MkdirAll(d.path, 0o755); err != nil {
			return fmt.Errorf("setup: crear %s: %w", d.path, err)
		}
		if err := checkWritable(d.path); err != nil {
			return err
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			rep.add(d.name, StatusCreated, d.path)
		} else {
			rep.add(d.name, StatusOK, d.path)
		}
	}
	return nil
}

// prepareSQLiteFile mueve a .bak la base si está corrupta o si se pidió reset.
func (in *Initializer) prepareSQLiteFile(ctx context.Context, reset bool, rep *Report) error {
	path := in.cfg.DB.Path
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		rep.add("database", StatusCreated, path)
		return nil
	}
	if reset {
		bak, err := in.moveAside(path)
		if err != nil {
			return err
		}
		rep.BackupPath = bak
		rep.add("reset", StatusRepaired, "base anterior en "+bak)
		return nil
	}
	if err := probeSQLite(ctx, in.cfg.DB); err != nil {
		in.log.Warn().Err(err).Str("path", path).Msg("base de datos dañada, se recrea")
		bak, mvErr := in.moveAside(path)
		if mvErr != nil {
			return mvErr
		}
		rep.BackupPath = bak
		rep.add("database", StatusRepaired, "base dañada respaldada en "+bak)
		return nil
	}
	rep.add("database", StatusOK, path)
	return nil
}

func probeSQLite(ctx context.Context, cfg config.DBConfig) error {
	db, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.IntegrityCheck(ctx, db)
}

// moveAside renombra la base a <path>.<timestamp>.bak y elimina los archivos -wal/-shm.
func (in *Initializer) moveAside(path string) (string, error) {
	bak := fmt.Sprintf("%s.%s.bak", path, in.now().Format("20060102150405"))
	if err := os.Rename(path, bak); err != nil {
		return "", fmt.Errorf("setup: respaldar %s: %w", path, err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("setup: eliminar %s%s: %w", path, suffix, err)
		}
	}
	return bak, nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".cafecraft-write-test-*")
	if err != nil {
		return fmt.Errorf("setup: %s no es escribible: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
