package ports

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/domain/recommend"
)

// ModelStore persiste el modelo de recomendación.
// Load devuelve (nil, nil) si todavía no hay modelo guardado.
type ModelStore interface {
	Load(ctx context.Context) (*recommend.Model, error)
	Save(ctx context.Context, model *recommend.Model) error
}
