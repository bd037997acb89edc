package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// OrderFilter filtros de pedidos. From es inclusivo y To exclusivo.
type OrderFilter struct {
	Status    string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	WithItems bool
}

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create inserta el pedido y sus líneas.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus persiste Status, CompletedAt y CancelledAt.
	UpdateStatus(ctx context.Context, order *entity.Order) error
	// List ordena del más reciente al más antiguo.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
