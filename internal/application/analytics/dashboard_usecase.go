package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

const dashboardTopProducts = 5

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	orders      repository.OrderRepository
	ingredients repository.IngredientRepository
	loc         *time.Location
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(orders repository.OrderRepository, ingredients repository.IngredientRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{orders: orders, ingredients: ingredients, loc: loc, now: time.Now}
}

// GetSummary ejecuta tres consultas en paralelo:
//  1. pedidos de hoy        → TodaySales, TodayProfit, TodayOrders
//  2. pedidos del mes       → MonthlySales, MonthlyProfit, TopProducts
//  3. ingredientes con stock → LowStockCount
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)

	type ordersResult struct {
		orders []*entity.Order
		err    error
	}
	type lowStockResult struct {
		count int
		err   error
	}

	todayCh := make(chan ordersResult, 1)
	monthCh := make(chan ordersResult, 1)
	lowCh := make(chan lowStockResult, 1)

	completedBetween := func(from, to time.Time) ([]*entity.Order, error) {
		return uc.orders.List(ctx, repository.OrderFilter{
			Status:    entity.OrderStatusCompleted,
			From:      &from,
			To:        &to,
			WithItems: true,
		})
	}
	go func() {
		orders, err := completedBetween(todayStart, tomorrow)
		todayCh <- ordersResult{orders, err}
	}()
	go func() {
		orders, err := completedBetween(monthStart, tomorrow)
		monthCh <- ordersResult{orders, err}
	}()
	go func() {
		items, err := uc.ingredients.ListWithStock(ctx, false)
		n := 0
		for _, is := range items {
			if is.IsLow() {
				n++
			}
		}
		lowCh <- lowStockResult{n, err}
	}()

	today := <-todayCh
	month := <-monthCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	t := summarize(today.orders, dto.Period{From: todayStart, To: tomorrow})
	m := summarize(month.orders, dto.Period{From: monthStart, To: tomorrow})

	return &dto.DashboardSummaryDTO{
		TodaySales:    t.TotalSales,
		TodayProfit:   t.GrossProfit,
		TodayOrders:   t.OrderCount,
		MonthlySales:  m.TotalSales,
		MonthlyProfit: m.GrossProfit,
		TopProducts:   bestSellers(month.orders, dashboardTopProducts),
		LowStockCount: low.count,
		DateLabel:     monthLabel(now),
	}, nil
}

// monthLabel etiqueta legible del mes, ej: "October 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}
