// Package sales contiene el cálculo de totales y la validación de pagos del POS (servicio de dominio puro).
package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Line línea del carrito ya resuelta contra el producto.
type Line struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Subtotal precio × cantidad.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals totales de un carrito.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals calcula subtotal, descuento porcentual (0..100, redondeado a 2 decimales) y total.
func ComputeTotals(lines []Line, discountPercent decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.ErrEmptyCart
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return Totals{}, fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrInvalidInput, l.Name)
		}
		subtotal = subtotal.Add(l.Subtotal())
	}
	discount := subtotal.Mul(discountPercent).Div(hundred).Round(2)
	return Totals{
		Subtotal:        subtotal.Round(2),
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		Total:           subtotal.Sub(discount).Round(2),
	}, nil
}

// Payment datos de pago entregados en caja.
type Payment struct {
	Method    string
	Tendered  decimal.Decimal // solo efectivo
	Reference string          // gcash / transferencia
	Pending   bool            // gcash / transferencia: pago pendiente de verificación
}

// SettlePayment valida el pago contra el total y devuelve el estado inicial del pedido y el cambio.
//   - cash: Tendered >= total; el pedido se completa y se devuelve el cambio.
//   - gcash / bank_transfer: exige referencia; queda pending o completed según Pending.
func SettlePayment(p Payment, total decimal.Decimal) (status string, change decimal.Decimal, err error) {
	switch p.Method {
	case entity.PaymentCash:
		if p.Tendered.LessThan(total) {
			return "", decimal.Zero, domain.ErrInsufficientPayment
		}
		return entity.OrderStatusCompleted, p.Tendered.Sub(total).Round(2), nil
	case entity.PaymentGCash, entity.PaymentBankTransfer:
		if strings.TrimSpace(p.Reference) == "" {
			return "", decimal.Zero, domain.ErrPaymentReference
		}
		if p.Pending {
			return entity.OrderStatusPending, decimal.Zero, nil
		}
		return entity.OrderStatusCompleted, decimal.Zero, nil
	default:
		return "", decimal.Zero, fmt.Errorf("%w: método de pago %q no soportado", domain.ErrInvalidInput, p.Method)
	}
}

// OrderNumber genera el número visible del pedido: ORD-YYYYMMDDHHMMSS-XXXX.
// suffix desambigua pedidos creados en el mismo segundo.
func OrderNumber(now time.Time, suffix string) string {
	n := "ORD-" + now.Format("20060102150405")
	if suffix != "" {
		n += "-" + strings.ToUpper(suffix)
	}
	return n
}

// CanTransition indica si un pedido puede pasar de from a to.
func CanTransition(from, to string) bool {
	switch from {
	case entity.OrderStatusPending:
		return to == entity.OrderStatusCompleted || to == entity.OrderStatusCancelled
	case entity.OrderStatusCompleted:
		return to == entity.OrderStatusCancelled
	}
	return false
}
