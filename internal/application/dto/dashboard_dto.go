package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contiene los KPIs principales del día y del mes en curso, más el Top-5 de productos del mes.
type DashboardSummaryDTO struct {
	// Métricas del día actual
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayProfit decimal.Decimal `json:"today_profit"`
	TodayOrders int             `json:"today_orders"`

	// Métricas del mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`

	TopProducts   []BestSellerDTO `json:"top_products"`
	LowStockCount int             `json:"low_stock_count"`

	DateLabel string `json:"date_label"` // ej: "October 2026"
}
