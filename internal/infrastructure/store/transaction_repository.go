package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo movimientos de inventario y ventas.
type TransactionRepo struct {
	db bun.IDB
}

// NewTransactionRepository construye el adaptador de movimientos.
func NewTransactionRepository(db bun.IDB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create registra un movimiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	if _, err := r.db.NewInsert().Model(toTransactionModel(t)).Exec(ctx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List movimientos filtrados, del más reciente al más antiguo.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	var ms []*transactionModel
	q := r.db.NewSelect().Model(&ms).Order("t.created_at DESC", "t.id DESC")
	if f.Type != "" {
		q = q.Where("t.type = ?", f.Type)
	}
	if f.IngredientID != "" {
		q = q.Where("t.ingredient_id = ?", f.IngredientID)
	}
	if f.UserID != "" {
		q = q.Where("t.user_id = ?", f.UserID)
	}
	if f.OrderID != "" {
		q = q.Where("t.order_id = ?", f.OrderID)
	}
	if f.From != nil {
		q = q.Where("t.created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("t.created_at < ?", f.To.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*entity.InventoryTransaction, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}
