package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
)

// BackupFileName nombre por defecto del respaldo del día.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("cafecraft-backup-%s.json.zst", now.Format("2006-01-02"))
}

// BackupResult archivo escrito y filas incluidas.
type BackupResult struct {
	Path string
	Rows int
}

// Backup escribe todas las tablas como JSON comprimido con zstd.
// Si path está vacío se usa dir/cafecraft-backup-YYYY-MM-DD.json.zst.
func Backup(ctx context.Context, db bun.IDB, dir, path string) (*BackupResult, error) {
	if path == "" {
		path = filepath.Join(dir, BackupFileName(time.Now()))
	}
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("backup: crear %s: %w", d, err)
		}
	}
	snap, err := store.TakeSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	if err := writeSnapshot(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("backup: cerrar %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	return &BackupResult{Path: path, Rows: snap.Rows()}, nil
}

func writeSnapshot(f *os.File, snap *store.Snapshot) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("backup: zstd: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("backup: codificar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("backup: zstd: %w", err)
	}
	return nil
}

// ReadBackup lee y descomprime un respaldo.
func ReadBackup(path string) (*store.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("restore: zstd: %w", err)
	}
	defer dec.Close()
	var snap store.Snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, fmt.Errorf("restore: %s no es un respaldo válido: %w", path, err)
	}
	return &snap, nil
}

// Restore reemplaza todas las filas con el contenido del respaldo en una sola transacción.
func Restore(ctx context.Context, db *bun.DB, path string) (int, error) {
	snap, err := ReadBackup(path)
	if err != nil {
		return 0, err
	}
	if err := store.CreateSchema(ctx, db); err != nil {
		return 0, err
	}
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return store.RestoreSnapshot(ctx, tx, snap)
	})
	if err != nil {
		return 0, err
	}
	return snap.Rows(), nil
}
