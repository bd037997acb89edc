package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos del POS con sus líneas.
type OrderRepo struct {
	db bun.IDB
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(db bun.IDB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	m, items := toOrderModel(o)
	if _, err := r.db.NewInsert().Model(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pedido %s", domain.ErrDuplicate, o.OrderNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if _, err := r.db.NewInsert().Model(&items).Exec(ctx); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	m := new(orderModel)
	err := r.db.NewSelect().Model(m).
		Relation("Items", orderItems).
		Where("o.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return m.toEntity(), nil
}

// UpdateStatus persiste el cambio de estado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	m, _ := toOrderModel(o)
	res, err := r.db.NewUpdate().Model(m).
		Column("status", "completed_at", "cancelled_at").
		WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return expectAffected(res, "order")
}

// List pedidos filtrados, del más reciente al más antiguo.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var ms []*orderModel
	q := r.db.NewSelect().Model(&ms).Order("o.created_at DESC", "o.id DESC")
	if f.WithItems {
		q = q.Relation("Items", orderItems)
	}
	if f.Status != "" {
		q = q.Where("o.status = ?", f.Status)
	}
	if f.UserID != "" {
		q = q.Where("o.user_id = ?", f.UserID)
	}
	if f.From != nil {
		q = q.Where("o.created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("o.created_at < ?", f.To.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func orderItems(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("oi.position ASC")
}
