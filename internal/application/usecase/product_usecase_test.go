package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/usecase"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store/storetest"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newIngredient(t *testing.T, env *storetest.Env, name, cost string) string {
	t.Helper()
	now := time.Now().UTC()
	ing := &entity.Ingredient{ID: uuid.New().String(), Name: name, Unit: "g", CostPerUnit: d(cost), ReorderLevel: d("10"), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, env.Repos.Ingredients.Create(context.Background(), ing))
	return ing.ID
}

func TestProductCreate_Validaciones(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: " Latte ", Category: "Coffee", Price: d("120.005"), Cost: d("40")})
	require.NoError(t, err)
	assert.Equal(t, "Latte", p.Name)
	assert.True(t, p.IsActive)
	assert.True(t, p.Price.Equal(d("120.01")))

	_, err = uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Mocha"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Mocha", Category: "Coffee", Price: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	logs, err := env.Repos.Audit.List(ctx, repository.AuditFilter{Action: entity.AuditProductCreate})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProductList_CategoriaYDesactivados(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	latte, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee", Price: d("120")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Croissant", Category: "Pastry", Price: d("80")})
	require.NoError(t, err)

	coffee, err := uc.List(ctx, "Coffee", false)
	require.NoError(t, err)
	require.Len(t, coffee, 1)
	assert.Equal(t, "Latte", coffee[0].Name)

	require.NoError(t, uc.Deactivate(ctx, "u1", latte.ID))
	active, err := uc.List(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := uc.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pastry"}, cats)

	assert.ErrorIs(t, uc.Deactivate(ctx, "u1", "nope"), domain.ErrNotFound)
}

func TestProductUpdate_CamposParciales(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee", Price: d("120"), Description: "leche"})
	require.NoError(t, err)

	price := d("130")
	out, err := uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(d("130")))
	assert.Equal(t, "leche", out.Description)

	empty := " "
	_, err = uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Latte", got.Name)
}

func TestSetRecipe_ReemplazaYCalculaCosto(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee", Price: d("120")})
	require.NoError(t, err)
	milk := newIngredient(t, env, "Milk", "0.05")
	beans := newIngredient(t, env, "Beans", "1.5")

	r, err := uc.SetRecipe(ctx, "u1", p.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineDTO{
		{IngredientID: milk, QuantityRequired: d("200")},
		{IngredientID: beans, QuantityRequired: d("18")},
	}})
	require.NoError(t, err)
	assert.Len(t, r.Lines, 2)
	assert.True(t, r.UnitCost.Equal(d("37")), r.UnitCost.String())

	r, err = uc.SetRecipe(ctx, "u1", p.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineDTO{
		{IngredientID: beans, QuantityRequired: d("20")},
	}})
	require.NoError(t, err)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Beans", r.Lines[0].IngredientName)
	assert.True(t, r.UnitCost.Equal(d("30")))
}

func TestSetRecipe_Errores(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee"})
	require.NoError(t, err)
	milk := newIngredient(t, env, "Milk", "0.05")

	_, err = uc.SetRecipe(ctx, "u1", p.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineDTO{
		{IngredientID: milk, QuantityRequired: d("1")},
		{IngredientID: milk, QuantityRequired: d("2")},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetRecipe(ctx, "u1", p.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineDTO{{IngredientID: milk, QuantityRequired: d("0")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetRecipe(ctx, "u1", p.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineDTO{{IngredientID: "nope", QuantityRequired: d("1")}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.SetRecipe(ctx, "u1", "nope", dto.SetRecipeRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomDrink_PrecioDelProductoBase(t *testing.T) {
	env := storetest.Open(t)
	uc := usecase.NewProductUseCase(env.Repos, env.Tx)
	ctx := context.Background()

	base, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Name: "Latte", Category: "Coffee", Price: d("120")})
	require.NoError(t, err)

	drink, err := uc.CreateCustomDrink(ctx, "u1", dto.CreateCustomDrinkRequest{Name: "Oat Latte", BaseProductID: base.ID, Ingredients: "oat milk", IsFavorite: true})
	require.NoError(t, err)
	assert.True(t, drink.Price.Equal(d("120")))

	_, err = uc.CreateCustomDrink(ctx, "u2", dto.CreateCustomDrinkRequest{Name: "Iced", Price: d("90")})
	require.NoError(t, err)

	mine, err := uc.ListCustomDrinks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Oat Latte", mine[0].Name)

	_, err = uc.CreateCustomDrink(ctx, "u1", dto.CreateCustomDrinkRequest{Name: "X", BaseProductID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
