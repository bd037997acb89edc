package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del menú (bebida, pastelería, snack...).
// Cost es el costo unitario usado para calcular utilidad en reportes.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Description string
	ImagePath   string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
