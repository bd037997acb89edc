package ml

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/recommend"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store/storetest"
	"github.com/jhoicas/cafecraft/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type memoryStore struct {
	saved *recommend.Model
}

func (m *memoryStore) Load(context.Context) (*recommend.Model, error) { return m.saved, nil }
func (m *memoryStore) Save(_ context.Context, model *recommend.Model) error {
	m.saved = model
	return nil
}

func newML(t *testing.T) (*UseCase, *storetest.Env, *memoryStore) {
	env := storetest.Open(t)
	ms := &memoryStore{}
	uc := NewUseCase(env.Repos, ms, config.MLConfig{MinSupport: 0.05, MinConfidence: 0.3, TopK: 3}, time.UTC, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, env, ms
}

func createOrder(t *testing.T, env *storetest.Env, at time.Time, total string, products ...string) {
	o := &entity.Order{
		ID:            uuid.New().String(),
		OrderNumber:   "ORD-" + uuid.New().String()[:8],
		UserID:        "u1",
		TotalAmount:   d(total),
		PaymentMethod: entity.PaymentCash,
		Status:        entity.OrderStatusCompleted,
		CreatedAt:     at,
	}
	for _, p := range products {
		o.Items = append(o.Items, entity.OrderItem{ID: uuid.New().String(), OrderID: o.ID, ProductID: "p-" + p, ProductName: p, Quantity: 1, CreatedAt: at})
	}
	require.NoError(t, env.Repos.Orders.Create(context.Background(), o))
}

func TestRecommend_SinModelo(t *testing.T) {
	uc, _, _ := newML(t)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))

	_, err := uc.Recommend(ctx, []string{"Latte"}, 0)
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)
	_, err = uc.Stats()
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)
}

func TestTrain_YRecomendar(t *testing.T) {
	uc, env, ms := newML(t)
	ctx := context.Background()
	at := fixedNow.AddDate(0, 0, -1)
	for i := 0; i < 4; i++ {
		createOrder(t, env, at, "200", "Latte", "Croissant")
	}
	createOrder(t, env, at, "100", "Americano", "Muffin")
	createOrder(t, env, at, "100", "Latte")

	res, err := uc.Train(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Baskets)
	assert.Positive(t, res.Rules)
	assert.Equal(t, 2, res.Pairs)
	require.NotNil(t, ms.saved)

	recs, err := uc.Recommend(ctx, []string{" Latte ", ""}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Latte"}, recs.Basket)
	require.NotEmpty(t, recs.Recommendations)
	assert.Equal(t, "Croissant", recs.Recommendations[0].Item)

	sup, err := uc.ItemSupport("Latte")
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6.0, sup, 1e-9)

	_, err = uc.Recommend(ctx, []string{" "}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// un caso de uso nuevo recupera el modelo guardado
	other := NewUseCase(env.Repos, ms, uc.cfg, time.UTC, nil)
	require.NoError(t, other.Load(ctx))
	st, err := other.Stats()
	require.NoError(t, err)
	assert.Equal(t, 6, st.Baskets)
}

func TestSalesForecast_Tendencia(t *testing.T) {
	uc, env, _ := newML(t)
	for i, total := range []string{"100", "200", "300"} {
		createOrder(t, env, fixedNow.AddDate(0, 0, i-3), total, "Latte")
	}
	// fuera de la ventana de 90 días
	createOrder(t, env, fixedNow.AddDate(0, 0, -120), "9999", "Latte")

	f, err := uc.SalesForecast(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, f.DataPoints)
	require.Len(t, f.Points, 2)
	// Ventas en x=0,1,2 (hasta ayer); mañana es x=4.
	assert.Equal(t, "2026-05-21", f.Points[0].Day)
	assert.True(t, f.Points[0].Predicted.Equal(d("500")), f.Points[0].Predicted.String())
	assert.Equal(t, "2026-05-22", f.Points[1].Day)
	assert.True(t, f.Points[1].Predicted.Equal(d("600")))
}

func TestStockForecast_ConsumoDeVentas(t *testing.T) {
	uc, env, _ := newML(t)
	ctx := context.Background()
	now := fixedNow
	ingredient := func(name, qty string) string {
		id := uuid.New().String()
		require.NoError(t, env.Repos.Ingredients.Create(ctx, &entity.Ingredient{ID: id, Name: name, Unit: "ml", ReorderLevel: d("100"), IsActive: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, env.Repos.Stock.Upsert(ctx, &entity.StockLevel{IngredientID: id, Quantity: d(qty), UpdatedAt: now}))
		return id
	}
	milk := ingredient("Milk", "700")
	ingredient("Syrup", "40")
	for _, tx := range []*entity.InventoryTransaction{
		{IngredientID: milk, Quantity: d("700"), CreatedAt: now.AddDate(0, 0, -2)},
		{IngredientID: milk, Quantity: d("700"), CreatedAt: now.AddDate(0, 0, -5)},
		{IngredientID: milk, Quantity: d("5000"), CreatedAt: now.AddDate(0, 0, -30)},
	} {
		tx.ID = uuid.New().String()
		tx.Type = entity.TxTypeSale
		require.NoError(t, env.Repos.Transactions.Create(ctx, tx))
	}

	f, err := uc.StockForecast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, f.WindowDays)
	require.Len(t, f.Depletion, 1)
	assert.Equal(t, "Milk", f.Depletion[0].Name)
	assert.True(t, f.Depletion[0].DailyUsage.Equal(d("100")))
	assert.Equal(t, 7, f.Depletion[0].DaysLeft)

	require.Len(t, f.Restock, 2)
	byName := map[string]decimal.Decimal{}
	for _, r := range f.Restock {
		byName[r.Name] = r.Recommended
	}
	// 100×7 + 100 − 700
	assert.True(t, byName["Milk"].Equal(d("100")), byName["Milk"].String())
	// sin consumo: 100 − 40
	assert.True(t, byName["Syrup"].Equal(d("60")))
}
