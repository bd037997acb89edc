package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderLevel nivel de reorden por defecto de un ingrediente.
var DefaultReorderLevel = decimal.NewFromInt(10)

// Ingredient representa un insumo inventariable (café en grano, leche, vasos...).
type Ingredient struct {
	ID           string
	Name         string
	Unit         string // g, ml, pcs...
	CostPerUnit  decimal.Decimal
	ReorderLevel decimal.Decimal
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockLevel existencias actuales de un ingrediente (una fila por ingrediente).
type StockLevel struct {
	IngredientID  string
	Quantity      decimal.Decimal
	LastRestocked *time.Time
	ExpiryDate    *time.Time
	Location      string
	Supplier      string
	UpdatedAt     time.Time
}

// IngredientStock ingrediente junto con su nivel de stock. HasStock es false si no existe fila de stock.
type IngredientStock struct {
	Ingredient
	Quantity      decimal.Decimal
	HasStock      bool
	LastRestocked *time.Time
	ExpiryDate    *time.Time
	Location      string
	Supplier      string
}

// IsLow indica si el ingrediente está por debajo del nivel de reorden o no tiene stock registrado.
func (s IngredientStock) IsLow() bool {
	return !s.HasStock || s.Quantity.LessThan(s.ReorderLevel)
}
