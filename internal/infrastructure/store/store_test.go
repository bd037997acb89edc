package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, config.DBConfig{
		Driver:        config.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "cafecraft.db"),
		BusyTimeoutMS: 5000,
		MaxOpenConns:  4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.CreateSchema(ctx, db))
	return db
}

func newUser(username, role string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{
		ID: uuid.NewString(), Username: username, PasswordHash: "hash", FullName: username,
		Role: role, IsActive: true, CanPOS: true, CreatedAt: now, UpdatedAt: now,
	}
}

func newProduct(name, category, price string) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID: uuid.NewString(), Name: name, Category: category, Price: d(price), Cost: d(price).Div(d("3")).Round(2),
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
}

func newIngredient(name string) *entity.Ingredient {
	now := time.Now().UTC()
	return &entity.Ingredient{
		ID: uuid.NewString(), Name: name, Unit: "g", CostPerUnit: d("0.05"), ReorderLevel: d("100"),
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateSchema_Idempotente(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSchema(ctx, db))

	missing, err := store.MissingTables(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.NoError(t, store.IntegrityCheck(ctx, db))
	assert.Equal(t, config.DriverSQLite, db.Driver())
}

func TestMissingTables_DetectaFaltantes(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "vacia.db"), BusyTimeoutMS: 1000})
	require.NoError(t, err)
	defer db.Close()

	missing, err := store.MissingTables(ctx, db)
	require.NoError(t, err)
	assert.ElementsMatch(t, store.Tables, missing)
}

func TestUserRepo_CRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := store.NewUserRepository(db)

	owner := newUser("owner", entity.RoleOwner)
	require.NoError(t, repo.Create(ctx, owner))

	err := repo.Create(ctx, newUser("owner", entity.RoleEmployee))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	got, err := repo.GetByUsername(ctx, "owner")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, owner.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastLoginAt)

	missing, err := repo.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	got.FullName = "Dueña"
	got.IsActive = false
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.UpdatePassword(ctx, got.ID, "nuevo-hash"))
	require.NoError(t, repo.UpdateLastLogin(ctx, got.ID, time.Now()))

	again, err := repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dueña", again.FullName)
	assert.Equal(t, "nuevo-hash", again.PasswordHash)
	assert.NotNil(t, again.LastLoginAt)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "no-existe", "x"), domain.ErrNotFound)

	require.NoError(t, repo.Create(ctx, newUser("employee1", entity.RoleEmployee)))
	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "employee1", active[0].Username)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := repo.CountActiveByRole(ctx, entity.RoleOwner)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductRepo_ListYCategorias(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := store.NewProductRepository(db)

	for _, p := range []*entity.Product{
		newProduct("Muffin", "Pastry", "3.00"),
		newProduct("Latte", "Coffee", "5.00"),
		newProduct("Espresso", "Coffee", "3.50"),
	} {
		require.NoError(t, repo.Create(ctx, p))
	}
	inactive := newProduct("Viejo", "Tea", "1.00")
	inactive.IsActive = false
	require.NoError(t, repo.Create(ctx, inactive))

	list, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Espresso", "Latte", "Muffin"}, []string{list[0].Name, list[1].Name, list[2].Name})
	assert.True(t, list[0].Price.Equal(d("3.50")))

	coffee, err := repo.List(ctx, repository.ProductFilter{Category: "Coffee"})
	require.NoError(t, err)
	assert.Len(t, coffee, 2)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", "Pastry"}, cats)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.ErrorIs(t, repo.Create(ctx, newProduct("Latte", "Coffee", "9")), domain.ErrDuplicate)
}

func TestRecipeRepo_ReplaceIncluyeNombres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := newProduct("Latte", "Coffee", "5")
	require.NoError(t, store.NewProductRepository(db).Create(ctx, p))
	beans, milk := newIngredient("Coffee Beans"), newIngredient("Milk")
	ings := store.NewIngredientRepository(db)
	require.NoError(t, ings.Create(ctx, beans))
	require.NoError(t, ings.Create(ctx, milk))

	repo := store.NewRecipeRepository(db)
	require.NoError(t, repo.Replace(ctx, p.ID, []entity.RecipeLine{
		{ID: uuid.NewString(), IngredientID: milk.ID, QuantityRequired: d("200")},
		{ID: uuid.NewString(), IngredientID: beans.ID, QuantityRequired: d("18")},
	}))
	lines, err := repo.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Coffee Beans", lines[0].IngredientName)
	assert.Equal(t, "g", lines[0].Unit)
	assert.True(t, lines[0].QuantityRequired.Equal(d("18")))

	require.NoError(t, repo.Replace(ctx, p.ID, []entity.RecipeLine{{ID: uuid.NewString(), IngredientID: beans.ID, QuantityRequired: d("20")}}))
	lines, err = repo.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestIngredientRepo_StockUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ings := store.NewIngredientRepository(db)
	stock := store.NewStockRepository(db)

	beans := newIngredient("Coffee Beans")
	require.NoError(t, ings.Create(ctx, beans))

	got, err := ings.GetWithStock(ctx, beans.ID)
	require.NoError(t, err)
	assert.False(t, got.HasStock)
	assert.True(t, got.IsLow())

	now := time.Now().UTC()
	require.NoError(t, stock.Upsert(ctx, &entity.StockLevel{IngredientID: beans.ID, Quantity: d("1000.5"), LastRestocked: &now, UpdatedAt: now}))
	require.NoError(t, stock.Upsert(ctx, &entity.StockLevel{IngredientID: beans.ID, Quantity: d("750.25"), UpdatedAt: now}))

	s, err := stock.Get(ctx, beans.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.Quantity.Equal(d("750.25")), s.Quantity.String())

	list, err := ings.ListWithStock(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].HasStock)
	assert.False(t, list[0].IsLow())

	none, err := stock.Get(ctx, "otro")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestOrderRepo_CreateGetList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := store.NewOrderRepository(db)

	base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	mk := func(num string, at time.Time, status string) *entity.Order {
		id := uuid.NewString()
		return &entity.Order{
			ID: id, OrderNumber: num, UserID: "u1", CashierName: "Ana", Subtotal: d("8.50"), TotalAmount: d("8.50"),
			PaymentMethod: entity.PaymentCash, Status: status, CreatedAt: at,
			Items: []entity.OrderItem{
				{ID: uuid.NewString(), ProductID: "p1", ProductName: "Latte", Category: "Coffee", Quantity: 1, UnitPrice: d("5"), UnitCost: d("1.5"), Subtotal: d("5"), CreatedAt: at},
				{ID: uuid.NewString(), ProductID: "p2", ProductName: "Croissant", Category: "Pastry", Quantity: 1, UnitPrice: d("3.5"), UnitCost: d("1"), Subtotal: d("3.5"), CreatedAt: at},
			},
		}
	}
	o1 := mk("ORD-1", base, entity.OrderStatusCompleted)
	o2 := mk("ORD-2", base.Add(2*time.Hour), entity.OrderStatusPending)
	o3 := mk("ORD-3", base.AddDate(0, 0, 1), entity.OrderStatusCompleted)
	for _, o := range []*entity.Order{o1, o2, o3} {
		require.NoError(t, repo.Create(ctx, o))
	}
	assert.ErrorIs(t, repo.Create(ctx, mk("ORD-1", base, entity.OrderStatusCompleted)), domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, o1.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Latte", got.Items[0].ProductName)
	assert.Equal(t, "Croissant", got.Items[1].ProductName)
	assert.True(t, got.CreatedAt.Equal(base))

	from, to := base, base.AddDate(0, 0, 1)
	day, err := repo.List(ctx, repository.OrderFilter{From: &from, To: &to, WithItems: true})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "ORD-2", day[0].OrderNumber)
	assert.Len(t, day[1].Items, 2)

	completed, err := repo.List(ctx, repository.OrderFilter{Status: entity.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)
	assert.Empty(t, completed[0].Items)

	now := time.Now().UTC()
	o2.Status = entity.OrderStatusCancelled
	o2.CancelledAt = &now
	require.NoError(t, repo.UpdateStatus(ctx, o2))
	again, err := repo.GetByID(ctx, o2.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, again.Status)
	assert.NotNil(t, again.CancelledAt)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := store.NewTxRunner(db.DB)

	boom := errors.New("fallo")
	err := runner.Run(ctx, func(ctx context.Context, r repository.Set) error {
		require.NoError(t, r.Products.Create(ctx, newProduct("Latte", "Coffee", "5")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := store.NewProductRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, runner.Run(ctx, func(ctx context.Context, r repository.Set) error {
		return r.Products.Create(ctx, newProduct("Latte", "Coffee", "5"))
	}))
	require.NoError(t, runner.DryRun(ctx, func(ctx context.Context, r repository.Set) error {
		return r.Products.Create(ctx, newProduct("Mocha", "Coffee", "5"))
	}))
	n, err = store.NewProductRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSettingRepo_SetSobrescribe(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := store.NewSettingRepository(db)

	require.NoError(t, repo.Set(ctx, entity.SettingSchemaVersion, "1"))
	require.NoError(t, repo.Set(ctx, entity.SettingSchemaVersion, "2"))
	s, err := repo.Get(ctx, entity.SettingSchemaVersion)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "2", s.Value)

	none, err := repo.Get(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTransactionRepo_Filtros(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := store.NewTransactionRepository(db)
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{entity.TxTypePurchase, entity.TxTypeSale, entity.TxTypeSale, entity.TxTypeWaste} {
		require.NoError(t, repo.Create(ctx, &entity.InventoryTransaction{
			ID: uuid.NewString(), Type: typ, IngredientID: "ing-1", Quantity: d("1"), UserID: "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	sales, err := repo.List(ctx, repository.TransactionFilter{Type: entity.TxTypeSale})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.True(t, sales[0].CreatedAt.After(sales[1].CreatedAt))

	from := base.Add(90 * time.Minute)
	recent, err := repo.List(ctx, repository.TransactionFilter{From: &from, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Empty(t, recent[0].ProductID)
}

func TestSnapshot_RestauraContenido(t *testing.T) {
	src := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, store.NewUserRepository(src).Create(ctx, newUser("owner", entity.RoleOwner)))
	require.NoError(t, store.NewProductRepository(src).Create(ctx, newProduct("Latte", "Coffee", "5")))
	require.NoError(t, store.NewSettingRepository(src).Set(ctx, "shop_name", "CaféCraft"))

	snap, err := store.TakeSnapshot(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Rows())

	dst := openTestDB(t)
	require.NoError(t, store.NewProductRepository(dst).Create(ctx, newProduct("Borrar", "X", "1")))
	require.NoError(t, dst.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return store.RestoreSnapshot(ctx, tx, snap)
	}))

	products, err := store.NewProductRepository(dst).List(ctx, repository.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Latte", products[0].Name)
	assert.True(t, products[0].Price.Equal(d("5")))

	owner, err := store.NewUserRepository(dst).GetByUsername(ctx, "owner")
	require.NoError(t, err)
	assert.NotNil(t, owner)

	name, err := store.NewSettingRepository(dst).Get(ctx, "shop_name")
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "CaféCraft", name.Value)
}

func TestSnapshot_VersionFutura(t *testing.T) {
	db := openTestDB(t)
	err := store.RestoreSnapshot(context.Background(), db, &store.Snapshot{Version: store.SnapshotVersion + 1})
	assert.Error(t, err)
}
