package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/forecast"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC) }

func TestLinearFit_Recta(t *testing.T) {
	slope, intercept := forecast.LinearFit([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)
}

func TestLinearFit_VarianzaCero(t *testing.T) {
	slope, intercept := forecast.LinearFit([]float64{5}, []float64{42})
	assert.Zero(t, slope)
	assert.InDelta(t, 42.0, intercept, 1e-9)
}

func TestSales_Tendencia(t *testing.T) {
	history := []forecast.DailyTotal{
		{Day: day(3), Total: d("30")},
		{Day: day(1), Total: d("10")},
		{Day: day(2), Total: d("20")},
	}
	got := forecast.Sales(history, 3, day(3))
	require.Len(t, got, 3)
	assert.Equal(t, day(4), got[0].Day)
	assert.True(t, got[0].Predicted.Equal(d("40")), got[0].Predicted.String())
	assert.True(t, got[2].Predicted.Equal(d("60")), got[2].Predicted.String())
}

func TestSales_HistorialAntiguoPredicePosterioresAHoy(t *testing.T) {
	history := []forecast.DailyTotal{
		{Day: day(1), Total: d("10")},
		{Day: day(2), Total: d("20")},
	}
	today := day(10)
	got := forecast.Sales(history, 2, today)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.True(t, p.Day.After(today), p.Day.String())
	}
	assert.Equal(t, day(11), got[0].Day)
	assert.True(t, got[0].Predicted.Equal(d("110")), got[0].Predicted.String())
	assert.Equal(t, day(12), got[1].Day)
	assert.True(t, got[1].Predicted.Equal(d("120")), got[1].Predicted.String())
}

func TestSales_NuncaNegativo(t *testing.T) {
	history := []forecast.DailyTotal{
		{Day: day(1), Total: d("30")},
		{Day: day(2), Total: d("10")},
	}
	got := forecast.Sales(history, 5, day(2))
	for _, p := range got {
		assert.False(t, p.Predicted.IsNegative())
	}
	assert.True(t, got[4].Predicted.IsZero())
}

func TestSales_UnSoloDiaEsPlano(t *testing.T) {
	got := forecast.Sales([]forecast.DailyTotal{{Day: day(1), Total: d("12.345")}}, 2, day(1))
	require.Len(t, got, 2)
	assert.True(t, got[0].Predicted.Equal(d("12.35")), got[0].Predicted.String())
	assert.True(t, got[1].Predicted.Equal(d("12.35")))
}

func TestSales_SinHistorial(t *testing.T) {
	got := forecast.Sales(nil, 0, day(10))
	require.Len(t, got, forecast.DefaultHorizon)
	assert.Equal(t, day(11), got[0].Day)
	for _, p := range got {
		assert.True(t, p.Predicted.IsZero())
	}
}

func TestDaysUntilEmpty(t *testing.T) {
	items := []forecast.Usage{
		{IngredientID: "1", Name: "Leche", Quantity: d("1000"), Used: d("1400"), WindowDays: 14},
		{IngredientID: "2", Name: "Café", Quantity: d("100"), Used: d("280"), WindowDays: 14},
		{IngredientID: "3", Name: "Canela", Quantity: d("50"), Used: decimal.Zero, WindowDays: 14},
	}
	got := forecast.DaysUntilEmpty(items)
	require.Len(t, got, 2)
	assert.Equal(t, "Café", got[0].Name)
	assert.Equal(t, 5, got[0].DaysLeft)
	assert.True(t, got[0].DailyUsage.Equal(d("20")))
	assert.Equal(t, "Leche", got[1].Name)
	assert.Equal(t, 10, got[1].DaysLeft)
}

func TestRestockRecommendations(t *testing.T) {
	items := []forecast.Usage{
		// 10/día × 7 + 20 − 30 = 60
		{Name: "Leche", Quantity: d("30"), ReorderLevel: d("20"), Used: d("140"), WindowDays: 14},
		// 1.5/día × 7 + 5 − 2 = 13.5 -> 14
		{Name: "Café", Quantity: d("2"), ReorderLevel: d("5"), Used: d("21"), WindowDays: 14},
		// sin consumo: 10 − 4 = 6
		{Name: "Canela", Quantity: d("4"), ReorderLevel: d("10")},
		// sin consumo y con stock de sobra: 0
		{Name: "Vasos", Quantity: d("400"), ReorderLevel: d("10")},
	}
	got := forecast.RestockRecommendations(items)
	require.Len(t, got, 4)
	assert.True(t, got[0].Recommended.Equal(d("60")), got[0].Recommended.String())
	assert.True(t, got[1].Recommended.Equal(d("14")), got[1].Recommended.String())
	assert.True(t, got[2].Recommended.Equal(d("6")))
	assert.True(t, got[3].Recommended.IsZero())
}
