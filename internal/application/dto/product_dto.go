package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=128"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se modifican.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImagePath   *string          `json:"image_path,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ProductResponse salida de un producto del menú.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description,omitempty"`
	ImagePath   string          `json:"image_path,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecipeLineDTO una línea de receta.
type RecipeLineDTO struct {
	IngredientID     string          `json:"ingredient_id"`
	IngredientName   string          `json:"ingredient_name,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// SetRecipeRequest body para PUT /api/products/:id/recipe.
type SetRecipeRequest struct {
	Lines []RecipeLineDTO `json:"lines"`
}

// RecipeResponse receta completa de un producto.
type RecipeResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Lines       []RecipeLineDTO `json:"lines"`
	// UnitCost costo de ingredientes por unidad según el costo actual de cada ingrediente.
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreateCustomDrinkRequest body para POST /api/custom-drinks.
type CreateCustomDrinkRequest struct {
	Name          string          `json:"name" validate:"required"`
	BaseProductID string          `json:"base_product_id"`
	Price         decimal.Decimal `json:"price"`
	Ingredients   string          `json:"ingredients"`
	Instructions  string          `json:"instructions"`
	IsFavorite    bool            `json:"is_favorite"`
}

// CustomDrinkResponse salida de una bebida personalizada.
type CustomDrinkResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BaseProductID string          `json:"base_product_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Ingredients   string          `json:"ingredients,omitempty"`
	Instructions  string          `json:"instructions,omitempty"`
	IsFavorite    bool            `json:"is_favorite"`
	CreatedAt     time.Time       `json:"created_at"`
}
