package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryDTO resumen de ventas del período (solo pedidos completados).
type SalesSummaryDTO struct {
	Period            Period          `json:"period"`
	OrderCount        int             `json:"order_count"`
	ItemsSold         int             `json:"items_sold"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalDiscounts    decimal.Decimal `json:"total_discounts"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	MarginPercent     decimal.Decimal `json:"margin_percent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// BestSellerDTO producto más vendido.
type BestSellerDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// PaymentMethodDTO ventas por método de pago.
type PaymentMethodDTO struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// HourlySalesDTO ventas de una hora del día (0–23).
type HourlySalesDTO struct {
	Hour   int             `json:"hour"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// MonthlySalesDTO ventas de un mes (YYYY-MM).
type MonthlySalesDTO struct {
	Month  string          `json:"month"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// DailySalesDTO ventas de un día (YYYY-MM-DD).
type DailySalesDTO struct {
	Day    string          `json:"day"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// CategoryPerformanceDTO desempeño de una categoría del menú.
type CategoryPerformanceDTO struct {
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
}

// TransactionRowDTO pedido en el listado de transacciones del reporte.
type TransactionRowDTO struct {
	OrderID       string          `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CreatedAt     time.Time       `json:"created_at"`
	CashierName   string          `json:"cashier_name"`
	CustomerName  string          `json:"customer_name,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
}

// SalesReportDTO datos del PDF de resumen de ventas.
type SalesReportDTO struct {
	ShopName    string                   `json:"shop_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Summary     SalesSummaryDTO          `json:"summary"`
	BestSellers []BestSellerDTO          `json:"best_sellers"`
	Payments    []PaymentMethodDTO       `json:"payments"`
	Categories  []CategoryPerformanceDTO `json:"categories"`
}

// SaveReportRequest body para POST /api/reports/saved.
type SaveReportRequest struct {
	DateRange
	Name string `json:"name"`
}

// SavedReportDTO reporte guardado.
type SavedReportDTO struct {
	ID         string          `json:"id"`
	ReportType string          `json:"report_type"`
	ReportName string          `json:"report_name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	TotalSales decimal.Decimal `json:"total_sales"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Profit     decimal.Decimal `json:"profit"`
	ItemCount  int             `json:"item_count"`
	UserID     string          `json:"user_id"`
	CreatedAt  time.Time       `json:"created_at"`
}
