package pos_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/pos"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store/storetest"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	env     *storetest.Env
	uc      *pos.UseCase
	cashier pos.Actor
	owner   pos.Actor
	latte   string
	milk    string
	beans   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := storetest.Open(t)
	ctx := context.Background()
	now := time.Now().UTC()
	f := &fixture{env: env, uc: pos.NewUseCase(env.Repos, env.Tx, time.UTC)}

	for _, u := range []*entity.User{
		{ID: uuid.New().String(), Username: "cashier1", FullName: "Ana Cruz", Role: entity.RoleCashier, IsActive: true, CanPOS: true},
		{ID: uuid.New().String(), Username: "owner", FullName: "Owner", Role: entity.RoleOwner, IsActive: true, CanPOS: true},
	} {
		u.PasswordHash = "x"
		u.CreatedAt, u.UpdatedAt = now, now
		require.NoError(t, env.Repos.Users.Create(ctx, u))
		if u.Role == entity.RoleOwner {
			f.owner = pos.Actor{ID: u.ID, Role: u.Role}
		} else {
			f.cashier = pos.Actor{ID: u.ID, Role: u.Role}
		}
	}

	latte := &entity.Product{ID: uuid.New().String(), Name: "Latte", Category: "Coffee", Price: d("120"), Cost: d("40"), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, env.Repos.Products.Create(ctx, latte))
	f.latte = latte.ID

	ingredient := func(name, unit, qty string) string {
		ing := &entity.Ingredient{ID: uuid.New().String(), Name: name, Unit: unit, CostPerUnit: d("0.1"), ReorderLevel: d("10"), IsActive: true, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, env.Repos.Ingredients.Create(ctx, ing))
		require.NoError(t, env.Repos.Stock.Upsert(ctx, &entity.StockLevel{IngredientID: ing.ID, Quantity: d(qty), UpdatedAt: now}))
		return ing.ID
	}
	f.milk = ingredient("Milk", "ml", "500")
	f.beans = ingredient("Coffee Beans", "g", "100")
	require.NoError(t, env.Repos.Recipes.Replace(ctx, f.latte, []entity.RecipeLine{
		{ID: uuid.New().String(), IngredientID: f.milk, QuantityRequired: d("200")},
		{ID: uuid.New().String(), IngredientID: f.beans, QuantityRequired: d("18")},
	}))
	return f
}

func (f *fixture) stock(t *testing.T, ingredientID string) decimal.Decimal {
	s, err := f.env.Repos.Stock.Get(context.Background(), ingredientID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.Quantity
}

func (f *fixture) cashCheckout(t *testing.T, qty int) *dto.OrderResponse {
	o, err := f.uc.Checkout(context.Background(), f.cashier, dto.CheckoutRequest{
		Items:          []dto.CartItem{{ProductID: f.latte, Quantity: qty}},
		PaymentMethod:  entity.PaymentCash,
		AmountTendered: d("1000"),
	})
	require.NoError(t, err)
	return o
}

func TestQuote_SumaLineasRepetidas(t *testing.T) {
	f := newFixture(t)
	q, err := f.uc.Quote(context.Background(), dto.QuoteRequest{
		Items:           []dto.CartItem{{ProductID: f.latte, Quantity: 1}, {ProductID: f.latte, Quantity: 2}},
		DiscountPercent: d("10"),
	})
	require.NoError(t, err)
	require.Len(t, q.Lines, 1)
	assert.Equal(t, 3, q.Lines[0].Quantity)
	assert.True(t, q.Subtotal.Equal(d("360")))
	assert.True(t, q.DiscountAmount.Equal(d("36")))
	assert.True(t, q.Total.Equal(d("324")))
}

func TestQuote_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Quote(ctx, dto.QuoteRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: []dto.CartItem{{ProductID: f.latte, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: []dto.CartItem{{ProductID: "nope", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckout_EfectivoDescuentaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Items:          []dto.CartItem{{ProductID: f.latte, Quantity: 2}},
		PaymentMethod:  entity.PaymentCash,
		AmountTendered: d("300"),
		CustomerName:   "Juan",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, o.Status)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
	assert.Equal(t, "Ana Cruz", o.CashierName)
	assert.True(t, o.TotalAmount.Equal(d("240")))
	assert.True(t, o.ChangeDue.Equal(d("60")))
	assert.NotNil(t, o.CompletedAt)
	assert.Equal(t, 2, o.ItemCount)

	assert.True(t, f.stock(t, f.milk).Equal(d("100")))
	assert.True(t, f.stock(t, f.beans).Equal(d("64")))

	txs, err := f.env.Repos.Transactions.List(ctx, repository.TransactionFilter{Type: entity.TxTypeSale})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	var productLine *entity.InventoryTransaction
	for _, tx := range txs {
		if tx.IngredientID == "" {
			productLine = tx
		}
	}
	require.NotNil(t, productLine)
	assert.Equal(t, "Order "+o.OrderNumber+" - Juan", productLine.Notes)
	assert.True(t, productLine.TotalAmount.Equal(d("240")))

	stored, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Latte", stored.Items[0].ProductName)
}

func TestCheckout_StockInsuficienteRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Items:          []dto.CartItem{{ProductID: f.latte, Quantity: 3}},
		PaymentMethod:  entity.PaymentCash,
		AmountTendered: d("1000"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Milk")

	assert.True(t, f.stock(t, f.milk).Equal(d("500")))
	assert.True(t, f.stock(t, f.beans).Equal(d("100")))
	orders, err := f.uc.List(ctx, dto.OrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_EfectivoInsuficiente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Checkout(context.Background(), f.cashier, dto.CheckoutRequest{
		Items:          []dto.CartItem{{ProductID: f.latte, Quantity: 1}},
		PaymentMethod:  entity.PaymentCash,
		AmountTendered: d("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.True(t, f.stock(t, f.milk).Equal(d("500")))
}

func TestCheckout_PendienteLuegoCompletar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Items:            []dto.CartItem{{ProductID: f.latte, Quantity: 1}},
		PaymentMethod:    entity.PaymentGCash,
		PaymentReference: "GC-123",
		Pending:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, "GC-123", o.PaymentReference)
	assert.True(t, f.stock(t, f.milk).Equal(d("500")))

	done, err := f.uc.Complete(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.True(t, f.stock(t, f.milk).Equal(d("300")))

	_, err = f.uc.Complete(ctx, f.cashier, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCancel_CompletadoRequierePrivilegio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.cashCheckout(t, 1)
	assert.True(t, f.stock(t, f.milk).Equal(d("300")))

	_, err := f.uc.Cancel(ctx, f.cashier, o.ID, "error de caja")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	c, err := f.uc.Cancel(ctx, f.owner, o.ID, "error de caja")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, c.Status)
	assert.NotNil(t, c.CancelledAt)
	assert.True(t, f.stock(t, f.milk).Equal(d("500")))
	assert.True(t, f.stock(t, f.beans).Equal(d("100")))

	adj, err := f.env.Repos.Transactions.List(ctx, repository.TransactionFilter{Type: entity.TxTypeAdjustment})
	require.NoError(t, err)
	assert.Len(t, adj, 2)

	_, err = f.uc.Cancel(ctx, f.owner, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCancel_RestauraLoDescontadoAunqueCambieLaReceta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.cashCheckout(t, 1)
	require.True(t, f.stock(t, f.milk).Equal(d("300")))

	require.NoError(t, f.env.Repos.Recipes.Replace(ctx, f.latte, []entity.RecipeLine{
		{ID: uuid.New().String(), IngredientID: f.milk, QuantityRequired: d("50")},
	}))

	_, err := f.uc.Cancel(ctx, f.owner, o.ID, "receta corregida")
	require.NoError(t, err)
	assert.True(t, f.stock(t, f.milk).Equal(d("500")), f.stock(t, f.milk).String())
	assert.True(t, f.stock(t, f.beans).Equal(d("100")), f.stock(t, f.beans).String())
}

func TestCancel_RolDegradadoNoAnulaCompletado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.cashCheckout(t, 1)

	u, err := f.env.Repos.Users.GetByID(ctx, f.owner.ID)
	require.NoError(t, err)
	u.Role = entity.RoleCashier
	require.NoError(t, f.env.Repos.Users.Update(ctx, u))

	_, err = f.uc.Cancel(ctx, f.owner, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.stock(t, f.milk).Equal(d("300")))
}

func TestCheckout_ConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
				Items:          []dto.CartItem{{ProductID: f.latte, Quantity: 1}},
				PaymentMethod:  entity.PaymentCash,
				AmountTendered: d("200"),
			})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	// 500 ml de leche alcanzan para dos lattes de 200 ml.
	assert.Equal(t, 2, ok)
	assert.True(t, f.stock(t, f.milk).Equal(d("100")), f.stock(t, f.milk).String())
	assert.True(t, f.stock(t, f.beans).Equal(d("64")), f.stock(t, f.beans).String())
}

func TestCancel_PendienteNoTocaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Items:            []dto.CartItem{{ProductID: f.latte, Quantity: 1}},
		PaymentMethod:    entity.PaymentBankTransfer,
		PaymentReference: "BT-9",
		Pending:          true,
	})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, f.cashier, o.ID, "")
	require.NoError(t, err)
	assert.True(t, f.stock(t, f.milk).Equal(d("500")))

	_, err = f.uc.Complete(ctx, f.cashier, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cashCheckout(t, 1)
	_, err := f.uc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Items:            []dto.CartItem{{ProductID: f.latte, Quantity: 1}},
		PaymentMethod:    entity.PaymentGCash,
		PaymentReference: "GC-1",
		Pending:          true,
	})
	require.NoError(t, err)

	all, err := f.uc.List(ctx, dto.OrderQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.uc.List(ctx, dto.OrderQuery{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.PaymentGCash, pending[0].PaymentMethod)

	_, err = f.uc.List(ctx, dto.OrderQuery{Start: "2026-13-40"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Recibos ──────────────────────────────────────────────────────────────────

type fakeXML struct{}

func (fakeXML) BuildReceipt(o *entity.Order, code string) ([]byte, string, error) {
	return []byte("<Receipt number=\"" + o.OrderNumber + "\"/>"), "digest-" + code[:4], nil
}

func receipts(t *testing.T, f *fixture, dir string) *pos.ReceiptUseCase {
	mf, err := money.NewFormatter("en", "PHP", "₱")
	require.NoError(t, err)
	text := receipt.NewTextRenderer(receipt.Shop{Name: "CaféCraft"}, i18n.New("en"), mf, time.UTC)
	return pos.NewReceiptUseCase(f.env.Repos.Orders, text, nil, fakeXML{}, "shop-key", dir)
}

func TestReceipt_TextoYArchivo(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	o := f.cashCheckout(t, 1)

	doc, err := receipts(t, f, dir).Receipt(context.Background(), o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber+".txt", doc.Filename)
	assert.Contains(t, string(doc.Body), o.OrderNumber)
	assert.Contains(t, string(doc.Body), "₱120.00")
	assert.Len(t, doc.VerificationCode, 96)
	assert.FileExists(t, dir+"/"+doc.Filename)
}

func TestReceipt_XMLYFormatos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.cashCheckout(t, 1)
	uc := receipts(t, f, "")

	doc, err := uc.Receipt(ctx, o.ID, dto.ReceiptFormatXML)
	require.NoError(t, err)
	assert.Equal(t, "application/xml", doc.ContentType)
	assert.Equal(t, "digest-"+doc.VerificationCode[:4], doc.Digest)

	_, err = uc.Receipt(ctx, o.ID, dto.ReceiptFormatPDF)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receipt(ctx, o.ID, "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receipt(ctx, "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
