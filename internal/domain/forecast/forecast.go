// Package forecast contiene las predicciones de ventas y consumo de inventario.
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Ventanas de datos.
const (
	SalesHistoryDays = 90
	UsageWindowDays  = 14
	DefaultHorizon   = 7
	restockCoverDays = 7
)

// DailyTotal total vendido en un día (fecha truncada al día en la zona del reporte).
type DailyTotal struct {
	Day   time.Time
	Total decimal.Decimal
}

// Point predicción para un día.
type Point struct {
	Day       time.Time       `json:"day"`
	Predicted decimal.Decimal `json:"predicted"`
}

// LinearFit ajuste por mínimos cuadrados ordinarios. Con varianza cero en x la pendiente es 0.
func LinearFit(xs, ys []float64) (slope, intercept float64) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0, 0
	}
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/float64(n), sy/float64(n)
	var num, den float64
	for i := range xs {
		num += (xs[i] - mx) * (ys[i] - my)
		den += (xs[i] - mx) * (xs[i] - mx)
	}
	if den != 0 {
		slope = num / den
	}
	return slope, my - slope*mx
}

// Sales predice los horizon días siguientes a today. x = días desde el primer día con ventas.
// Sin historial devuelve ceros; las predicciones se acotan a >= 0 y se redondean a 2 decimales.
func Sales(history []DailyTotal, horizon int, today time.Time) []Point {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	sorted := append([]DailyTotal(nil), history...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day.Before(sorted[j].Day) })

	out := make([]Point, 0, horizon)
	start := truncateDay(today)
	if len(sorted) == 0 {
		for i := 1; i <= horizon; i++ {
			out = append(out, Point{Day: start.AddDate(0, 0, i), Predicted: decimal.Zero})
		}
		return out
	}

	first := truncateDay(sorted[0].Day)
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, d := range sorted {
		xs[i] = float64(daysBetween(first, truncateDay(d.Day)))
		ys[i] = d.Total.InexactFloat64()
	}
	slope, intercept := LinearFit(xs, ys)

	// Los puntos siempre son días posteriores a hoy, aunque el historial sea antiguo.
	todayX := float64(daysBetween(first, start))
	for i := 1; i <= horizon; i++ {
		y := slope*(todayX+float64(i)) + intercept
		if y < 0 {
			y = 0
		}
		out = append(out, Point{Day: start.AddDate(0, 0, i), Predicted: decimal.NewFromFloat(y).Round(2)})
	}
	return out
}

// ─── Inventario ───────────────────────────────────────────────────────────────

// Usage consumo de un ingrediente en la ventana de análisis.
type Usage struct {
	IngredientID string
	Name         string
	Unit         string
	Quantity     decimal.Decimal // stock actual
	ReorderLevel decimal.Decimal
	Used         decimal.Decimal // total consumido en WindowDays
	WindowDays   int
}

// DailyUsage consumo medio diario.
func (u Usage) DailyUsage() decimal.Decimal {
	days := u.WindowDays
	if days <= 0 {
		days = UsageWindowDays
	}
	return u.Used.Abs().Div(decimal.NewFromInt(int64(days)))
}

// Depletion estimación de agotamiento.
type Depletion struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Current      decimal.Decimal `json:"current"`
	DailyUsage   decimal.Decimal `json:"daily_usage"`
	DaysLeft     int             `json:"days_left"`
}

// DaysUntilEmpty estimaciones para ingredientes con consumo, ordenadas por días restantes.
// Ingredientes sin consumo no tienen estimación.
func DaysUntilEmpty(items []Usage) []Depletion {
	out := make([]Depletion, 0, len(items))
	for _, it := range items {
		avg := it.DailyUsage()
		if !avg.IsPositive() {
			continue
		}
		days := it.Quantity.Div(avg).Floor().IntPart()
		if days < 0 {
			days = 0
		}
		out = append(out, Depletion{
			IngredientID: it.IngredientID,
			Name:         it.Name,
			Current:      it.Quantity,
			DailyUsage:   avg.Round(2),
			DaysLeft:     int(days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysLeft < out[j].DaysLeft })
	return out
}

// Restock cantidad recomendada de compra.
type Restock struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Current      decimal.Decimal `json:"current"`
	DailyUsage   decimal.Decimal `json:"daily_usage"`
	Recommended  decimal.Decimal `json:"recommended"`
}

// RestockRecommendations con consumo: ceil(media×7 + mínimo − actual) si es positivo;
// sin consumo: max(0, mínimo − actual).
func RestockRecommendations(items []Usage) []Restock {
	cover := decimal.NewFromInt(restockCoverDays)
	out := make([]Restock, 0, len(items))
	for _, it := range items {
		avg := it.DailyUsage()
		var rec decimal.Decimal
		if avg.IsPositive() {
			rec = avg.Mul(cover).Add(it.ReorderLevel).Sub(it.Quantity).Ceil()
		} else {
			rec = it.ReorderLevel.Sub(it.Quantity)
		}
		if rec.IsNegative() {
			rec = decimal.Zero
		}
		out = append(out, Restock{
			IngredientID: it.IngredientID,
			Name:         it.Name,
			Unit:         it.Unit,
			Current:      it.Quantity,
			DailyUsage:   avg.Round(2),
			Recommended:  rec,
		})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
