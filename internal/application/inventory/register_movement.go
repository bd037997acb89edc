package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	stockrules "github.com/jhoicas/cafecraft/internal/domain/inventory"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// SetStock fija la cantidad absoluta y registra un ajuste por la diferencia.
func (uc *UseCase) SetStock(ctx context.Context, userID, id string, in dto.SetStockRequest) (*dto.IngredientResponse, error) {
	if in.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		is, err := getWithStock(ctx, r.Ingredients, id)
		if err != nil {
			return err
		}
		now := uc.now().UTC()
		stock := stockOf(is, now)
		old := stock.Quantity
		stock.Quantity = in.Quantity
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		note := stockrules.SetStockNote(old, in.Quantity)
		if n := strings.TrimSpace(in.Notes); n != "" {
			note += " - " + n
		}
		delta := in.Quantity.Sub(old).Abs()
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeAdjustment,
			IngredientID: is.ID,
			Quantity:     delta,
			UnitPrice:    is.CostPerUnit,
			TotalAmount:  delta.Mul(is.CostPerUnit).Round(2),
			UserID:       userID,
			Notes:        note,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditStockChange, "inventory", is.ID,
			map[string]string{"quantity": old.String()}, map[string]string{"quantity": in.Quantity.String()})
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Purchase reabastece: suma stock, recalcula el costo promedio ponderado y registra la compra.
func (uc *UseCase) Purchase(ctx context.Context, userID, id string, in dto.PurchaseRequest) (*dto.IngredientResponse, error) {
	if err := stockrules.ValidatePurchase(in.Quantity, in.UnitCost); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		is, err := getWithStock(ctx, r.Ingredients, id)
		if err != nil {
			return err
		}
		now := uc.now().UTC()
		ing := is.Ingredient
		oldCost := ing.CostPerUnit
		ing.CostPerUnit = stockrules.WeightedCost(is.Quantity, ing.CostPerUnit, in.Quantity, in.UnitCost)
		ing.UpdatedAt = now
		if err := r.Ingredients.Update(ctx, &ing); err != nil {
			return err
		}

		stock := stockOf(is, now)
		old := stock.Quantity
		stock.Quantity = stock.Quantity.Add(in.Quantity)
		stock.LastRestocked = &now
		if s := strings.TrimSpace(in.Supplier); s != "" {
			stock.Supplier = s
		}
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypePurchase,
			IngredientID: is.ID,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitCost,
			TotalAmount:  in.Quantity.Mul(in.UnitCost).Round(2),
			UserID:       userID,
			Notes:        strings.TrimSpace(in.Notes),
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditStockChange, "inventory", is.ID,
			map[string]string{"quantity": old.String(), "cost_per_unit": oldCost.String()},
			map[string]string{"quantity": stock.Quantity.String(), "cost_per_unit": ing.CostPerUnit.String()})
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Waste registra una merma; no puede superar el stock disponible.
func (uc *UseCase) Waste(ctx context.Context, userID, id string, in dto.WasteRequest) (*dto.IngredientResponse, error) {
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		is, err := getWithStock(ctx, r.Ingredients, id)
		if err != nil {
			return err
		}
		if err := stockrules.ValidateWaste(in.Quantity, is.Quantity, is.Name); err != nil {
			return err
		}
		now := uc.now().UTC()
		stock := stockOf(is, now)
		old := stock.Quantity
		stock.Quantity = stock.Quantity.Sub(in.Quantity)
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeWaste,
			IngredientID: is.ID,
			Quantity:     in.Quantity,
			UnitPrice:    is.CostPerUnit,
			TotalAmount:  in.Quantity.Mul(is.CostPerUnit).Round(2),
			UserID:       userID,
			Notes:        strings.TrimSpace(in.Reason),
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditStockChange, "inventory", is.ID,
			map[string]string{"quantity": old.String()}, map[string]string{"quantity": stock.Quantity.String()})
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}
