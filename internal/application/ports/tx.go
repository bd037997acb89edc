package ports

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback. Dentro de fn solo deben usarse los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error
}

// DryRunner ejecuta fn en una transacción que siempre se revierte (verificaciones de integración).
type DryRunner interface {
	DryRun(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error
}
