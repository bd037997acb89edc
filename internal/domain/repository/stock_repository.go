package repository

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient.
type IngredientRepository interface {
	Create(ctx context.Context, ing *entity.Ingredient) error
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	GetByName(ctx context.Context, name string) (*entity.Ingredient, error)
	Update(ctx context.Context, ing *entity.Ingredient) error
	// ListWithStock une cada ingrediente con su fila de stock (HasStock=false si no existe), ordenado por nombre.
	ListWithStock(ctx context.Context, includeInactive bool) ([]entity.IngredientStock, error)
	GetWithStock(ctx context.Context, id string) (*entity.IngredientStock, error)
}

// StockRepository define el puerto para consultar/actualizar stock por ingrediente.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, ingredientID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, stock *entity.StockLevel) error
}
