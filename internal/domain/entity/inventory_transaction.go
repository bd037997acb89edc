package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TxTypePurchase   = "purchase"   // compra / reabastecimiento
	TxTypeSale       = "sale"       // venta (producto) o consumo de ingrediente por venta
	TxTypeAdjustment = "adjustment" // ajuste manual o reversa por cancelación
	TxTypeWaste      = "waste"      // merma
)

// TransactionTypes tipos en orden de presentación.
var TransactionTypes = []string{TxTypePurchase, TxTypeSale, TxTypeAdjustment, TxTypeWaste}

// ValidTxType indica si t es un tipo de transacción conocido.
func ValidTxType(t string) bool {
	switch t {
	case TxTypePurchase, TxTypeSale, TxTypeAdjustment, TxTypeWaste:
		return true
	}
	return false
}

// InventoryTransaction registra un movimiento: sobre un ingrediente (IngredientID) o
// la venta de un producto (ProductID). Quantity siempre es positiva; el tipo indica el sentido.
type InventoryTransaction struct {
	ID           string
	Type         string
	IngredientID string
	ProductID    string
	OrderID      string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	UserID       string
	Notes        string
	CreatedAt    time.Time
}
