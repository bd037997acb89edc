package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavedReport resumen de un reporte generado y persistido para consulta posterior.
type SavedReport struct {
	ID         string
	ReportType string
	ReportName string
	StartDate  time.Time
	EndDate    time.Time
	TotalSales decimal.Decimal
	TotalCost  decimal.Decimal
	Profit     decimal.Decimal
	ItemCount  int
	UserID     string
	CreatedAt  time.Time
}
