package entity

import "github.com/shopspring/decimal"

// RecipeLine cantidad de un ingrediente consumida por cada unidad vendida de un producto.
type RecipeLine struct {
	ID               string
	ProductID        string
	IngredientID     string
	IngredientName   string
	Unit             string
	QuantityRequired decimal.Decimal
}
