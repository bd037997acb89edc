package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomDrink variación guardada de un producto base (p. ej. "Latte avena extra shot").
type CustomDrink struct {
	ID              string
	Name            string
	BaseProductID   string
	CreatedByUserID string
	Price           decimal.Decimal
	Ingredients     string
	Instructions    string
	IsFavorite      bool
	CreatedAt       time.Time
}
