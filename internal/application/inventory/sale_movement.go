package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	stockrules "github.com/jhoicas/cafecraft/internal/domain/inventory"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// SaleMovement datos de una línea vendida que afectan el inventario.
type SaleMovement struct {
	ProductID   string
	Quantity    int
	OrderID     string
	OrderNumber string
	UserID      string
	At          time.Time
}

// DeductForSaleInTx descuenta los ingredientes de la receta del producto usando los repositorios
// del caller (misma transacción). Si algún ingrediente no alcanza devuelve ErrInsufficientStock
// y el caller debe hacer rollback.
func DeductForSaleInTx(ctx context.Context, r repository.Set, m SaleMovement) error {
	lines, err := r.Recipes.ListByProduct(ctx, m.ProductID)
	if err != nil {
		return err
	}
	qty := decimal.NewFromInt(int64(m.Quantity))
	for _, l := range lines {
		required := l.QuantityRequired.Mul(qty)
		ing, err := r.Ingredients.GetByID(ctx, l.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return fmt.Errorf("inventario: ingrediente %s de la receta no existe", l.IngredientID)
		}
		stock, err := r.Stock.Get(ctx, l.IngredientID)
		if err != nil {
			return err
		}
		if stock == nil {
			stock = &entity.StockLevel{IngredientID: l.IngredientID}
		}
		left, err := stockrules.Deduct(stock.Quantity, required, ing.Name)
		if err != nil {
			return err
		}
		stock.Quantity = left
		stock.UpdatedAt = m.At
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeSale,
			IngredientID: l.IngredientID,
			ProductID:    m.ProductID,
			OrderID:      m.OrderID,
			Quantity:     required,
			UnitPrice:    ing.CostPerUnit,
			TotalAmount:  required.Mul(ing.CostPerUnit).Round(2),
			UserID:       m.UserID,
			Notes:        "Order " + m.OrderNumber,
			CreatedAt:    m.At,
		}); err != nil {
			return err
		}
	}
	return nil
}

// RestoreOrderInTx devuelve al stock lo que la venta m.OrderID descontó realmente, según sus
// movimientos de tipo sale por ingrediente, y registra un ajuste por cada uno. La receta actual
// no interviene: pudo cambiar después de la venta.
func RestoreOrderInTx(ctx context.Context, r repository.Set, m SaleMovement) error {
	txs, err := r.Transactions.List(ctx, repository.TransactionFilter{Type: entity.TxTypeSale, OrderID: m.OrderID})
	if err != nil {
		return err
	}
	for _, t := range txs {
		// Las líneas de producto (sin ingrediente) solo registran la venta.
		if t.IngredientID == "" {
			continue
		}
		amount := t.Quantity.Abs()
		stock, err := r.Stock.Get(ctx, t.IngredientID)
		if err != nil {
			return err
		}
		if stock == nil {
			stock = &entity.StockLevel{IngredientID: t.IngredientID}
		}
		stock.Quantity = stock.Quantity.Add(amount)
		stock.UpdatedAt = m.At
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeAdjustment,
			IngredientID: t.IngredientID,
			ProductID:    t.ProductID,
			OrderID:      m.OrderID,
			Quantity:     amount,
			UserID:       m.UserID,
			Notes:        "Order " + m.OrderNumber + " cancelled",
			CreatedAt:    m.At,
		}); err != nil {
			return err
		}
	}
	return nil
}
