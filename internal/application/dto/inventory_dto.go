package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIngredientRequest body para POST /api/ingredients.
// InitialQuantity > 0 se registra como compra inicial.
type CreateIngredientRequest struct {
	Name            string           `json:"name" validate:"required,max=128"`
	Unit            string           `json:"unit" validate:"required"`
	CostPerUnit     decimal.Decimal  `json:"cost_per_unit"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level,omitempty"`
	Description     string           `json:"description"`
	InitialQuantity decimal.Decimal  `json:"initial_quantity"`
	Location        string           `json:"location"`
	Supplier        string           `json:"supplier"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
}

// UpdateIngredientRequest body para PUT /api/ingredients/:id. Campos nil no se modifican.
type UpdateIngredientRequest struct {
	Name         *string          `json:"name,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	ReorderLevel *decimal.Decimal `json:"reorder_level,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Location     *string          `json:"location,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
}

// SetStockRequest body para PUT /api/ingredients/:id/stock (cantidad absoluta).
type SetStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// PurchaseRequest body para POST /api/ingredients/:id/purchase.
type PurchaseRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Supplier string          `json:"supplier"`
	Notes    string          `json:"notes"`
}

// WasteRequest body para POST /api/ingredients/:id/waste.
type WasteRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}

// IngredientResponse ingrediente con su stock.
type IngredientResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	Description   string          `json:"description,omitempty"`
	IsActive      bool            `json:"is_active"`
	Quantity      decimal.Decimal `json:"quantity"`
	HasStock      bool            `json:"has_stock"`
	IsLow         bool            `json:"is_low"`
	StockValue    decimal.Decimal `json:"stock_value"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Location      string          `json:"location,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
}

// InventoryValueResponse valor total del inventario activo.
type InventoryValueResponse struct {
	Ingredients int             `json:"ingredients"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// TransactionQuery filtros de GET /api/inventory/transactions.
type TransactionQuery struct {
	Type         string `query:"type"`
	IngredientID string `query:"ingredient_id"`
	Start        string `query:"start"`
	End          string `query:"end"`
	Limit        int    `query:"limit"`
}

// TransactionResponse movimiento de inventario.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	IngredientID string          `json:"ingredient_id,omitempty"`
	ProductID    string          `json:"product_id,omitempty"`
	OrderID      string          `json:"order_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	UserID       string          `json:"user_id"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ingrediente bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	IngredientID       string          `json:"ingredient_id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`         // ReorderLevel * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // IdealStock - CurrentStock
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	OutOfStock         bool            `json:"out_of_stock"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
