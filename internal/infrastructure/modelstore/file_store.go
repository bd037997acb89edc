// Package modelstore guarda el modelo de recomendación como archivo JSON.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain/recommend"
)

var _ ports.ModelStore = (*FileStore)(nil)

// FileStore implementa ports.ModelStore sobre un archivo.
type FileStore struct {
	path string
}

// NewFileStore apunta al archivo del modelo (ml.model_path).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path ruta del archivo.
func (s *FileStore) Path() string { return s.path }

// Load lee el modelo. Si el archivo no existe devuelve (nil, nil).
func (s *FileStore) Load(ctx context.Context) (*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("modelstore: leer %s: %w", s.path, err)
	}
	return recommend.Unmarshal(data)
}

// Save escribe en un temporal y lo renombra, de modo que un lector nunca ve un archivo a medias.
func (s *FileStore) Save(ctx context.Context, m *recommend.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("modelstore: serializar: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("modelstore: crear %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("modelstore: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("modelstore: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("modelstore: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("modelstore: renombrar: %w", err)
	}
	return nil
}
