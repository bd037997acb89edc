// Package ml entrena y sirve el recomendador de productos y las predicciones de ventas e inventario.
package ml

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/forecast"
	"github.com/jhoicas/cafecraft/internal/domain/recommend"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/pkg/config"
	"github.com/jhoicas/cafecraft/pkg/logger"
)

// UseCase mantiene el modelo en memoria. Recommend usa lectura concurrente; Train reemplaza el modelo.
type UseCase struct {
	repos repository.Set
	store ports.ModelStore
	cfg   config.MLConfig
	loc   *time.Location
	log   *logger.Logger
	now   func() time.Time

	mu    sync.RWMutex
	model *recommend.Model
}

// NewUseCase construye el caso de uso sin modelo cargado; ver Load.
func NewUseCase(repos repository.Set, store ports.ModelStore, cfg config.MLConfig, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repos: repos, store: store, cfg: cfg, loc: loc, log: log.Named("ml"), now: time.Now}
}

// Load carga el modelo guardado. Sin modelo guardado no es error: Recommend devolverá ErrModelNotTrained.
func (uc *UseCase) Load(ctx context.Context) error {
	m, err := uc.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("ml: cargar modelo: %w", err)
	}
	if m == nil {
		uc.log.Info().Msg("sin modelo entrenado")
		return nil
	}
	uc.mu.Lock()
	uc.model = m
	uc.mu.Unlock()
	uc.log.Info().Time("trained_at", m.TrainedAt).Int("baskets", m.Baskets).Msg("modelo cargado")
	return nil
}

// Train entrena con las cestas de todos los pedidos completados y persiste el modelo.
func (uc *UseCase) Train(ctx context.Context) (*dto.TrainResponse, error) {
	orders, err := uc.repos.Orders.List(ctx, repository.OrderFilter{Status: entity.OrderStatusCompleted, WithItems: true})
	if err != nil {
		return nil, fmt.Errorf("ml: pedidos: %w", err)
	}
	baskets := make([][]string, 0, len(orders))
	for _, o := range orders {
		basket := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			basket = append(basket, it.ProductName)
		}
		if len(basket) > 0 {
			baskets = append(baskets, basket)
		}
	}

	m := recommend.Train(baskets, uc.cfg.MinSupport, uc.cfg.MinConfidence, uc.now())
	if err := uc.store.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("ml: guardar modelo: %w", err)
	}
	uc.mu.Lock()
	uc.model = m
	uc.mu.Unlock()

	st := m.Stats()
	uc.log.Info().Int("baskets", st.Baskets).Int("rules", st.Rules).Msg("modelo entrenado")
	return &dto.TrainResponse{
		TrainedAt:        st.TrainedAt,
		Baskets:          st.Baskets,
		FrequentItemsets: st.Itemsets,
		Rules:            st.Rules,
		Pairs:            m.Cooccurrence.PairCount(),
	}, nil
}

func (uc *UseCase) current() (*recommend.Model, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.model == nil {
		return nil, domain.ErrModelNotTrained
	}
	return uc.model, nil
}

// Recommend productos sugeridos para la cesta (topK <= 0 usa el valor configurado).
func (uc *UseCase) Recommend(ctx context.Context, basket []string, topK int) (*dto.RecommendationsResponse, error) {
	m, err := uc.current()
	if err != nil {
		return nil, err
	}
	clean := make([]string, 0, len(basket))
	for _, b := range basket {
		if b = strings.TrimSpace(b); b != "" {
			clean = append(clean, b)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: la cesta está vacía", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = uc.cfg.TopK
	}
	recs := m.Recommend(clean, topK)
	out := &dto.RecommendationsResponse{Basket: clean, Recommendations: make([]dto.RecommendationDTO, 0, len(recs))}
	for _, r := range recs {
		out.Recommendations = append(out.Recommendations, dto.RecommendationDTO{Item: r.Item, Confidence: r.Confidence, Support: r.Support})
	}
	return out, nil
}

// ItemSupport fracción de cestas que contienen el producto.
func (uc *UseCase) ItemSupport(item string) (float64, error) {
	m, err := uc.current()
	if err != nil {
		return 0, err
	}
	return m.Apriori.Support(item), nil
}

// Stats resumen del modelo cargado.
func (uc *UseCase) Stats() (*recommend.Stats, error) {
	m, err := uc.current()
	if err != nil {
		return nil, err
	}
	st := m.Stats()
	return &st, nil
}

// ─── Predicciones ─────────────────────────────────────────────────────────────

// SalesForecast regresión lineal sobre los totales diarios de los últimos 90 días.
func (uc *UseCase) SalesForecast(ctx context.Context, horizon int) (*dto.SalesForecastResponse, error) {
	now := uc.now().In(uc.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	from := today.AddDate(0, 0, -forecast.SalesHistoryDays)
	to := today.AddDate(0, 0, 1)
	orders, err := uc.repos.Orders.List(ctx, repository.OrderFilter{Status: entity.OrderStatusCompleted, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("ml: pedidos: %w", err)
	}

	byDay := make(map[time.Time]decimal.Decimal)
	for _, o := range orders {
		t := o.CreatedAt.In(uc.loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, uc.loc)
		byDay[day] = byDay[day].Add(o.TotalAmount)
	}
	history := make([]forecast.DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		history = append(history, forecast.DailyTotal{Day: day, Total: total})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Day.Before(history[j].Day) })

	points := forecast.Sales(history, horizon, today)
	out := &dto.SalesForecastResponse{
		HistoryDays: forecast.SalesHistoryDays,
		DataPoints:  len(history),
		Points:      make([]dto.SalesForecastPoint, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, dto.SalesForecastPoint{Day: p.Day.Format("2006-01-02"), Predicted: p.Predicted})
	}
	return out, nil
}

// StockForecast días hasta agotar y compra recomendada según el consumo por ventas de los últimos 14 días.
func (uc *UseCase) StockForecast(ctx context.Context) (*dto.StockForecastResponse, error) {
	items, err := uc.repos.Ingredients.ListWithStock(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("ml: ingredientes: %w", err)
	}
	from := uc.now().UTC().AddDate(0, 0, -forecast.UsageWindowDays)
	txs, err := uc.repos.Transactions.List(ctx, repository.TransactionFilter{Type: entity.TxTypeSale, From: &from})
	if err != nil {
		return nil, fmt.Errorf("ml: movimientos: %w", err)
	}
	used := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.IngredientID != "" {
			used[t.IngredientID] = used[t.IngredientID].Add(t.Quantity)
		}
	}

	usage := make([]forecast.Usage, 0, len(items))
	for _, is := range items {
		usage = append(usage, forecast.Usage{
			IngredientID: is.ID,
			Name:         is.Name,
			Unit:         is.Unit,
			Quantity:     is.Quantity,
			ReorderLevel: is.ReorderLevel,
			Used:         used[is.ID],
			WindowDays:   forecast.UsageWindowDays,
		})
	}

	out := &dto.StockForecastResponse{WindowDays: forecast.UsageWindowDays}
	for _, d := range forecast.DaysUntilEmpty(usage) {
		out.Depletion = append(out.Depletion, dto.StockDepletionDTO{
			IngredientID: d.IngredientID, Name: d.Name, Current: d.Current, DailyUsage: d.DailyUsage, DaysLeft: d.DaysLeft,
		})
	}
	for _, r := range forecast.RestockRecommendations(usage) {
		out.Restock = append(out.Restock, dto.RestockDTO{
			IngredientID: r.IngredientID, Name: r.Name, Unit: r.Unit, Current: r.Current, DailyUsage: r.DailyUsage, Recommended: r.Recommended,
		})
	}
	return out, nil
}
