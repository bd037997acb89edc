package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store/storetest"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

func item(name, category string, qty int, price, cost string) entity.OrderItem {
	p := d(price)
	return entity.OrderItem{
		ID:          uuid.New().String(),
		ProductID:   "p-" + name,
		ProductName: name,
		Category:    category,
		Quantity:    qty,
		UnitPrice:   p,
		UnitCost:    d(cost),
		Subtotal:    p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func order(at time.Time, method, status string, items ...entity.OrderItem) *entity.Order {
	o := &entity.Order{
		ID:            uuid.New().String(),
		OrderNumber:   "ORD-" + uuid.New().String()[:8],
		UserID:        "u1",
		CashierName:   "Ana",
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     at,
	}
	total := decimal.Zero
	for i := range items {
		items[i].OrderID = o.ID
		items[i].CreatedAt = at
		total = total.Add(items[i].Subtotal)
	}
	o.Items = items
	o.Subtotal, o.TotalAmount = total, total
	return o
}

func sampleOrders() []*entity.Order {
	return []*entity.Order{
		order(time.Date(2026, 3, 15, 8, 10, 0, 0, time.UTC), entity.PaymentCash, entity.OrderStatusCompleted,
			item("Latte", "Coffee", 2, "120", "40"), item("Croissant", "Pastry", 1, "80", "30")),
		order(time.Date(2026, 3, 15, 8, 45, 0, 0, time.UTC), entity.PaymentGCash, entity.OrderStatusCompleted,
			item("Latte", "Coffee", 1, "120", "40")),
		order(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC), entity.PaymentCash, entity.OrderStatusCompleted,
			item("Americano", "Coffee", 3, "100", "25")),
	}
}

// ─── Agregaciones ─────────────────────────────────────────────────────────────

func TestSummarize_MargenYPromedio(t *testing.T) {
	s := summarize(sampleOrders(), dto.Period{})
	assert.Equal(t, 3, s.OrderCount)
	assert.Equal(t, 7, s.ItemsSold)
	assert.True(t, s.TotalSales.Equal(d("740")))
	assert.True(t, s.TotalCost.Equal(d("225")))
	assert.True(t, s.GrossProfit.Equal(d("515")))
	assert.True(t, s.MarginPercent.Equal(d("69.59")), s.MarginPercent.String())
	assert.True(t, s.AverageOrderValue.Equal(d("246.67")))
}

func TestSummarize_SinVentas(t *testing.T) {
	s := summarize(nil, dto.Period{})
	assert.Zero(t, s.OrderCount)
	assert.True(t, s.MarginPercent.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
}

func TestBestSellers_OrdenYLimite(t *testing.T) {
	b := bestSellers(sampleOrders(), 2)
	require.Len(t, b, 2)
	// Latte y Americano empatan en cantidad; gana el de mayor ingreso
	assert.Equal(t, "Latte", b[0].Name)
	assert.Equal(t, 3, b[0].Quantity)
	assert.True(t, b[0].Revenue.Equal(d("360")))
	assert.Equal(t, "Americano", b[1].Name)
}

func TestPaymentMethods_DescendentePorTotal(t *testing.T) {
	p := paymentMethods(sampleOrders())
	require.Len(t, p, 2)
	assert.Equal(t, entity.PaymentCash, p[0].Method)
	assert.Equal(t, 2, p[0].Count)
	assert.True(t, p[0].Total.Equal(d("620")))
}

func TestHourly_VeinticuatroBuckets(t *testing.T) {
	h := hourly(sampleOrders(), time.UTC)
	require.Len(t, h, 24)
	assert.Equal(t, 2, h[8].Orders)
	assert.Equal(t, 1, h[15].Orders)
	assert.Zero(t, h[0].Orders)

	manila := time.FixedZone("PHT", 8*3600)
	h = hourly(sampleOrders(), manila)
	assert.Equal(t, 2, h[16].Orders)
}

func TestMonthly_IncluyeMesesVacios(t *testing.T) {
	m := monthly(sampleOrders(), time.UTC, fixedNow, 3)
	require.Len(t, m, 3)
	assert.Equal(t, "2026-01", m[0].Month)
	assert.Equal(t, "2026-03", m[2].Month)
	assert.Zero(t, m[0].Orders)
	assert.Equal(t, 3, m[2].Orders)
}

func TestDaily_RellenaDias(t *testing.T) {
	p := dto.Period{From: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}
	days := daily(sampleOrders(), time.UTC, p)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-13", days[0].Day)
	assert.Zero(t, days[0].Orders)
	assert.Equal(t, 1, days[1].Orders)
	assert.True(t, days[2].Total.Equal(d("440")))
}

func TestCategories_GananciaPorCategoria(t *testing.T) {
	c := categories(sampleOrders())
	require.Len(t, c, 2)
	assert.Equal(t, "Coffee", c[0].Category)
	assert.Equal(t, 6, c[0].Quantity)
	assert.True(t, c[0].Revenue.Equal(d("660")))
	assert.True(t, c[0].Cost.Equal(d("195")))
	assert.True(t, c[0].Profit.Equal(d("465")))
}

// ─── Casos de uso sobre SQLite ────────────────────────────────────────────────

type fakeReportPDF struct{ got *dto.SalesReportDTO }

func (f *fakeReportPDF) GenerateSalesReport(r *dto.SalesReportDTO) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.4"), nil
}

func seedOrders(t *testing.T, env *storetest.Env) {
	ctx := context.Background()
	orders := append(sampleOrders(),
		order(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), entity.PaymentGCash, entity.OrderStatusPending,
			item("Latte", "Coffee", 5, "120", "40")),
		order(time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), entity.PaymentCash, entity.OrderStatusCompleted,
			item("Mocha", "Coffee", 1, "150", "50")),
	)
	for _, o := range orders {
		require.NoError(t, env.Repos.Orders.Create(ctx, o))
	}
}

func newReports(t *testing.T) (*ReportUseCase, *fakeReportPDF) {
	env := storetest.Open(t)
	seedOrders(t, env)
	pdf := &fakeReportPDF{}
	uc := NewReportUseCase(env.Repos.Orders, env.Repos.Reports, pdf, time.UTC, "CaféCraft")
	uc.now = func() time.Time { return fixedNow }
	return uc, pdf
}

func TestReportSummary_HoyPorDefecto(t *testing.T) {
	uc, _ := newReports(t)
	s, err := uc.Summary(context.Background(), dto.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 2, s.OrderCount, "solo completados de hoy")
	assert.True(t, s.TotalSales.Equal(d("440")))

	s, err = uc.Summary(context.Background(), dto.DateRange{Start: "2026-03-01", End: "2026-03-15"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.OrderCount)

	_, err = uc.Summary(context.Background(), dto.DateRange{Start: "15/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportMonthly_YTransacciones(t *testing.T) {
	uc, _ := newReports(t)
	ctx := context.Background()

	m, err := uc.Monthly(ctx, 0)
	require.NoError(t, err)
	require.Len(t, m, 6)
	assert.Equal(t, "2026-02", m[4].Month)
	assert.Equal(t, 1, m[4].Orders)
	assert.Equal(t, 3, m[5].Orders)

	_, err = uc.Monthly(ctx, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err := uc.Transactions(ctx, dto.DateRange{Start: "2026-03-14", End: "2026-03-15"}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))
	assert.Equal(t, "Ana", rows[0].CashierName)
}

func TestReportSaveYListar(t *testing.T) {
	uc, _ := newReports(t)
	ctx := context.Background()

	saved, err := uc.Save(ctx, "u1", dto.SaveReportRequest{DateRange: dto.DateRange{Start: "2026-03-14", End: "2026-03-15"}})
	require.NoError(t, err)
	assert.Equal(t, "Sales 2026-03-14 to 2026-03-15", saved.ReportName)
	assert.True(t, saved.TotalSales.Equal(d("740")))
	assert.Equal(t, 7, saved.ItemCount)

	list, err := uc.ListSaved(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
}

func TestReportExportPDF(t *testing.T) {
	uc, pdf := newReports(t)
	out, err := uc.ExportPDF(context.Background(), dto.DateRange{Start: "2026-03-15"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(out))
	require.NotNil(t, pdf.got)
	assert.Equal(t, "CaféCraft", pdf.got.ShopName)
	assert.Len(t, pdf.got.BestSellers, 2)
}

func TestDashboard_Resumen(t *testing.T) {
	env := storetest.Open(t)
	seedOrders(t, env)
	ctx := context.Background()
	now := fixedNow
	for _, ing := range []struct {
		name, qty string
	}{{"Milk", "2"}, {"Beans", "500"}} {
		id := uuid.New().String()
		require.NoError(t, env.Repos.Ingredients.Create(ctx, &entity.Ingredient{ID: id, Name: ing.name, Unit: "g", ReorderLevel: d("10"), IsActive: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, env.Repos.Stock.Upsert(ctx, &entity.StockLevel{IngredientID: id, Quantity: d(ing.qty), UpdatedAt: now}))
	}

	uc := NewDashboardUseCase(env.Repos.Orders, env.Repos.Ingredients, time.UTC)
	uc.now = func() time.Time { return fixedNow }
	s, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.True(t, s.TodaySales.Equal(d("440")))
	assert.True(t, s.TodayProfit.Equal(d("290")))
	assert.Equal(t, 2, s.TodayOrders)
	assert.True(t, s.MonthlySales.Equal(d("740")))
	assert.True(t, s.MonthlyProfit.Equal(d("515")))
	assert.Len(t, s.TopProducts, 3)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, "March 2026", s.DateLabel)
}
