package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest body para POST /api/orders/quote.
type QuoteRequest struct {
	Items           []CartItem      `json:"items"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CheckoutRequest body para POST /api/orders.
// Pending solo aplica a gcash y bank_transfer.
type CheckoutRequest struct {
	Items            []CartItem      `json:"items"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	CustomerName     string          `json:"customer_name"`
	PaymentMethod    string          `json:"payment_method"`
	AmountTendered   decimal.Decimal `json:"amount_tendered"`
	PaymentReference string          `json:"payment_reference"`
	Pending          bool            `json:"pending"`
}

// QuoteLine línea cotizada.
type QuoteLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// QuoteResponse totales del carrito sin persistir nada.
type QuoteResponse struct {
	Lines           []QuoteLine     `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
}

// OrderItemResponse línea de un pedido.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	UserID           string              `json:"user_id"`
	CashierName      string              `json:"cashier_name"`
	CustomerName     string              `json:"customer_name,omitempty"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	DiscountPercent  decimal.Decimal     `json:"discount_percent"`
	DiscountAmount   decimal.Decimal     `json:"discount_amount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	AmountTendered   decimal.Decimal     `json:"amount_tendered"`
	ChangeDue        decimal.Decimal     `json:"change_due"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	Status           string              `json:"status"`
	ItemCount        int                 `json:"item_count"`
	CreatedAt        time.Time           `json:"created_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	Items            []OrderItemResponse `json:"items,omitempty"`
}

// OrderQuery filtros de GET /api/orders.
type OrderQuery struct {
	Status string `query:"status"`
	Start  string `query:"start"`
	End    string `query:"end"`
	Limit  int    `query:"limit"`
}

// CancelOrderRequest body opcional de POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Formatos de recibo.
const (
	ReceiptFormatText = "text"
	ReceiptFormatPDF  = "pdf"
	ReceiptFormatXML  = "xml"
)

// ReceiptDocument recibo generado en el formato pedido.
type ReceiptDocument struct {
	Filename         string
	ContentType      string
	Body             []byte
	VerificationCode string
	Digest           string // SHA-256 del XML canónico, solo formato xml
}
