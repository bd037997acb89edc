package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Métodos de pago.
const (
	PaymentCash         = "cash"
	PaymentGCash        = "gcash"
	PaymentBankTransfer = "bank_transfer"
)

// ValidPaymentMethod indica si m es un método de pago soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentGCash, PaymentBankTransfer:
		return true
	}
	return false
}

// Order representa una venta del POS.
type Order struct {
	ID               string
	OrderNumber      string // ORD-YYYYMMDDHHMMSS-XXXX
	UserID           string
	CashierName      string
	CustomerName     string
	Subtotal         decimal.Decimal
	DiscountPercent  decimal.Decimal
	DiscountAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
	AmountTendered   decimal.Decimal
	ChangeDue        decimal.Decimal
	PaymentMethod    string
	PaymentReference string
	Status           string
	CreatedAt        time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	Items            []OrderItem
}

// OrderItem línea de un pedido. ProductName, Category y UnitCost se copian del producto al vender.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Category    string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// ItemCount total de unidades del pedido.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
