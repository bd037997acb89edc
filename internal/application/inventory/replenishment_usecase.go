package inventory

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	stockrules "github.com/jhoicas/cafecraft/internal/domain/inventory"
)

// Replenishment devuelve los ingredientes bajo el nivel de reorden con la cantidad sugerida
// de compra, priorizados: primero los agotados, luego por déficit relativo.
func (uc *UseCase) Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.repos.Ingredients.ListWithStock(ctx, false)
	if err != nil {
		return nil, err
	}
	suggestions := stockrules.Replenishment(items)
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(suggestions))
	for i, s := range suggestions {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			IngredientID:       s.IngredientID,
			Name:               s.Name,
			Unit:               s.Unit,
			CurrentStock:       s.Current,
			ReorderLevel:       s.ReorderLevel,
			IdealStock:         s.IdealStock,
			SuggestedOrderQty:  s.SuggestedQty,
			EstimatedOrderCost: s.EstimatedCost,
			OutOfStock:         s.OutOfStock,
			Priority:           i + 1,
		})
	}
	return out, nil
}
