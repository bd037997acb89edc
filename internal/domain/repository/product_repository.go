package repository

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// ProductFilter filtros del listado de menú.
type ProductFilter struct {
	Category        string
	IncludeInactive bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// List ordena por categoría y nombre.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// RecipeRepository receta de cada producto (ingrediente + cantidad por unidad vendida).
type RecipeRepository interface {
	// ListByProduct incluye nombre y unidad del ingrediente.
	ListByProduct(ctx context.Context, productID string) ([]entity.RecipeLine, error)
	// Replace sustituye la receta completa del producto.
	Replace(ctx context.Context, productID string, lines []entity.RecipeLine) error
}

// CustomDrinkRepository bebidas personalizadas guardadas por los usuarios del POS.
type CustomDrinkRepository interface {
	Create(ctx context.Context, drink *entity.CustomDrink) error
	ListByUser(ctx context.Context, userID string) ([]*entity.CustomDrink, error)
}
