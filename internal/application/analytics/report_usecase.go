// Package analytics contiene los reportes de ventas y el resumen del dashboard.
// Todos los cálculos consideran solo pedidos completados.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

const (
	defaultBestSellers = 10
	defaultMonths      = 6
	maxMonths          = 36
	defaultRowsLimit   = 100
	savedReportType    = "sales_summary"
)

// ReportUseCase reportes de ventas por rango de fechas.
type ReportUseCase struct {
	orders   repository.OrderRepository
	reports  repository.ReportRepository
	pdf      ports.ReportPDFGenerator
	loc      *time.Location
	shopName string
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. loc es la zona horaria de los días y horas del reporte.
func NewReportUseCase(orders repository.OrderRepository, reports repository.ReportRepository, pdf ports.ReportPDFGenerator, loc *time.Location, shopName string) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{orders: orders, reports: reports, pdf: pdf, loc: loc, shopName: shopName, now: time.Now}
}

// completed pedidos completados del período con sus líneas.
func (uc *ReportUseCase) completed(ctx context.Context, r dto.DateRange) ([]*entity.Order, dto.Period, error) {
	p, err := r.Resolve(uc.loc, uc.now())
	if err != nil {
		return nil, dto.Period{}, err
	}
	orders, err := uc.orders.List(ctx, repository.OrderFilter{
		Status:    entity.OrderStatusCompleted,
		From:      &p.From,
		To:        &p.To,
		WithItems: true,
	})
	if err != nil {
		return nil, dto.Period{}, fmt.Errorf("reportes: pedidos: %w", err)
	}
	return orders, p, nil
}

// Summary resumen de ventas del período.
func (uc *ReportUseCase) Summary(ctx context.Context, r dto.DateRange) (*dto.SalesSummaryDTO, error) {
	orders, p, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	s := summarize(orders, p)
	return &s, nil
}

// BestSellers productos más vendidos por cantidad (limit por defecto 10).
func (uc *ReportUseCase) BestSellers(ctx context.Context, r dto.DateRange, limit int) ([]dto.BestSellerDTO, error) {
	orders, _, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBestSellers
	}
	return bestSellers(orders, limit), nil
}

// PaymentMethods ventas por método de pago.
func (uc *ReportUseCase) PaymentMethods(ctx context.Context, r dto.DateRange) ([]dto.PaymentMethodDTO, error) {
	orders, _, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	return paymentMethods(orders), nil
}

// Hourly ventas por hora del día.
func (uc *ReportUseCase) Hourly(ctx context.Context, r dto.DateRange) ([]dto.HourlySalesDTO, error) {
	orders, _, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	return hourly(orders, uc.loc), nil
}

// Daily ventas por día del período.
func (uc *ReportUseCase) Daily(ctx context.Context, r dto.DateRange) ([]dto.DailySalesDTO, error) {
	orders, p, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	return daily(orders, uc.loc, p), nil
}

// Monthly tendencia de los últimos months meses (por defecto 6) incluido el mes en curso.
func (uc *ReportUseCase) Monthly(ctx context.Context, months int) ([]dto.MonthlySalesDTO, error) {
	if months <= 0 {
		months = defaultMonths
	}
	if months > maxMonths {
		return nil, fmt.Errorf("%w: máximo %d meses", domain.ErrInvalidInput, maxMonths)
	}
	now := uc.now().In(uc.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc).AddDate(0, -(months - 1), 0)
	orders, err := uc.orders.List(ctx, repository.OrderFilter{Status: entity.OrderStatusCompleted, From: &from})
	if err != nil {
		return nil, fmt.Errorf("reportes: pedidos: %w", err)
	}
	return monthly(orders, uc.loc, now, months), nil
}

// Categories desempeño por categoría del menú.
func (uc *ReportUseCase) Categories(ctx context.Context, r dto.DateRange) ([]dto.CategoryPerformanceDTO, error) {
	orders, _, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	return categories(orders), nil
}

// Transactions pedidos completados del período, del más reciente al más antiguo.
func (uc *ReportUseCase) Transactions(ctx context.Context, r dto.DateRange, limit int) ([]dto.TransactionRowDTO, error) {
	orders, _, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRowsLimit
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return transactionRows(orders), nil
}

// SalesReport datos completos del resumen (usado por el PDF).
func (uc *ReportUseCase) SalesReport(ctx context.Context, r dto.DateRange) (*dto.SalesReportDTO, error) {
	orders, p, err := uc.completed(ctx, r)
	if err != nil {
		return nil, err
	}
	return &dto.SalesReportDTO{
		ShopName:    uc.shopName,
		GeneratedAt: uc.now(),
		Summary:     summarize(orders, p),
		BestSellers: bestSellers(orders, defaultBestSellers),
		Payments:    paymentMethods(orders),
		Categories:  categories(orders),
	}, nil
}

// ExportPDF resumen de ventas en PDF.
func (uc *ReportUseCase) ExportPDF(ctx context.Context, r dto.DateRange) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("%w: generador PDF no configurado", domain.ErrInvalidInput)
	}
	report, err := uc.SalesReport(ctx, r)
	if err != nil {
		return nil, err
	}
	out, err := uc.pdf.GenerateSalesReport(report)
	if err != nil {
		return nil, fmt.Errorf("reportes: pdf: %w", err)
	}
	return out, nil
}

// Save persiste el resumen del período.
func (uc *ReportUseCase) Save(ctx context.Context, userID string, in dto.SaveReportRequest) (*dto.SavedReportDTO, error) {
	s, err := uc.Summary(ctx, in.DateRange)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = fmt.Sprintf("Sales %s to %s", s.Period.From.In(uc.loc).Format("2006-01-02"), s.Period.To.In(uc.loc).AddDate(0, 0, -1).Format("2006-01-02"))
	}
	rep := &entity.SavedReport{
		ID:         uuid.New().String(),
		ReportType: savedReportType,
		ReportName: name,
		StartDate:  s.Period.From.UTC(),
		EndDate:    s.Period.To.UTC(),
		TotalSales: s.TotalSales,
		TotalCost:  s.TotalCost,
		Profit:     s.GrossProfit,
		ItemCount:  s.ItemsSold,
		UserID:     userID,
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	return toSavedReportDTO(rep), nil
}

// ListSaved reportes guardados, del más reciente al más antiguo.
func (uc *ReportUseCase) ListSaved(ctx context.Context, limit int) ([]*dto.SavedReportDTO, error) {
	if limit <= 0 {
		limit = defaultRowsLimit
	}
	reps, err := uc.reports.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SavedReportDTO, 0, len(reps))
	for _, r := range reps {
		out = append(out, toSavedReportDTO(r))
	}
	return out, nil
}

func toSavedReportDTO(r *entity.SavedReport) *dto.SavedReportDTO {
	return &dto.SavedReportDTO{
		ID:         r.ID,
		ReportType: r.ReportType,
		ReportName: r.ReportName,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		TotalSales: r.TotalSales,
		TotalCost:  r.TotalCost,
		Profit:     r.Profit,
		ItemCount:  r.ItemCount,
		UserID:     r.UserID,
		CreatedAt:  r.CreatedAt,
	}
}
