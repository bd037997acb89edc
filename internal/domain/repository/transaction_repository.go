package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// TransactionFilter filtros del historial de movimientos. Campos vacíos no filtran.
type TransactionFilter struct {
	Type         string
	IngredientID string
	UserID       string
	OrderID      string
	From         *time.Time
	To           *time.Time
	Limit        int
}

// TransactionRepository define el puerto de persistencia para movimientos de inventario.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	// List ordena del más reciente al más antiguo.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.InventoryTransaction, error)
}
