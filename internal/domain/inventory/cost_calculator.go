// Package inventory reúne las reglas puras de stock de ingredientes (servicio de dominio).
package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// WeightedCost costo promedio ponderado tras una compra.
// NuevoCosto = ((StockActual * CostoActual) + (CantCompra * CostoCompra)) / (StockActual + CantCompra)
func WeightedCost(stock, currentCost, purchased, purchaseCost decimal.Decimal) decimal.Decimal {
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	sum := stock.Add(purchased)
	if sum.LessThanOrEqual(decimal.Zero) {
		return purchaseCost
	}
	num := stock.Mul(currentCost).Add(purchased.Mul(purchaseCost))
	return num.Div(sum).Round(4)
}

// ValidatePurchase cantidad > 0 y costo unitario >= 0.
func ValidatePurchase(qty, unitCost decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la cantidad comprada debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if unitCost.IsNegative() {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateWaste cantidad > 0 y no mayor que el stock.
func ValidateWaste(qty, stock decimal.Decimal, ingredient string) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la merma debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if qty.GreaterThan(stock) {
		return fmt.Errorf("%w: %s (disponible %s, merma %s)", domain.ErrInsufficientStock, ingredient, stock.String(), qty.String())
	}
	return nil
}

// Deduct resta required de stock; nunca deja stock negativo.
func Deduct(stock, required decimal.Decimal, ingredient string) (decimal.Decimal, error) {
	if stock.LessThan(required) {
		return stock, fmt.Errorf("%w: %s (disponible %s, requerido %s)", domain.ErrInsufficientStock, ingredient, stock.String(), required.String())
	}
	return stock.Sub(required), nil
}

// SetStockNote nota del ajuste absoluto de stock.
func SetStockNote(from, to decimal.Decimal) string {
	return fmt.Sprintf("Stock set from %s to %s", from.String(), to.String())
}

// ─── Reposición ──────────────────────────────────────────────────────────────

var idealFactor = decimal.NewFromFloat(1.5)

// Suggestion sugerencia de compra para un ingrediente bajo mínimo.
type Suggestion struct {
	IngredientID  string
	Name          string
	Unit          string
	Current       decimal.Decimal
	ReorderLevel  decimal.Decimal
	IdealStock    decimal.Decimal
	SuggestedQty  decimal.Decimal
	EstimatedCost decimal.Decimal
	OutOfStock    bool
	shortfall     decimal.Decimal
}

// Replenishment calcula las sugerencias: stock ideal = mínimo × 1.5, compra = ideal − actual.
// Orden: primero agotados, luego mayor déficit relativo al mínimo.
func Replenishment(items []entity.IngredientStock) []Suggestion {
	out := make([]Suggestion, 0, len(items))
	for _, it := range items {
		if !it.IsActive || !it.IsLow() {
			continue
		}
		ideal := it.ReorderLevel.Mul(idealFactor)
		qty := ideal.Sub(it.Quantity)
		if !qty.IsPositive() {
			continue
		}
		ratio := decimal.NewFromInt(1)
		if it.ReorderLevel.IsPositive() {
			ratio = it.ReorderLevel.Sub(it.Quantity).Div(it.ReorderLevel)
		}
		out = append(out, Suggestion{
			IngredientID:  it.ID,
			Name:          it.Name,
			Unit:          it.Unit,
			Current:       it.Quantity,
			ReorderLevel:  it.ReorderLevel,
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: qty.Mul(it.CostPerUnit).Round(2),
			OutOfStock:    !it.Quantity.IsPositive(),
			shortfall:     ratio,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OutOfStock != out[j].OutOfStock {
			return out[i].OutOfStock
		}
		return out[i].shortfall.GreaterThan(out[j].shortfall)
	})
	return out
}

// StockValue Σ cantidad × costo unitario de ingredientes activos.
func StockValue(items []entity.IngredientStock) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		total = total.Add(it.Quantity.Mul(it.CostPerUnit))
	}
	return total.Round(2)
}
