package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/auth"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/pos"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	"github.com/jhoicas/cafecraft/pkg/config"
)

// CheckResult resultado de una verificación.
type CheckResult struct {
	Name   string
	Passed bool
	Detail string
}

// Checker verificación de integración sobre una base ya inicializada.
type Checker struct {
	db  *store.DB
	cfg *config.Config
	loc *time.Location
}

// NewChecker construye el verificador.
func NewChecker(db *store.DB, cfg *config.Config, loc *time.Location) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{db: db, cfg: cfg, loc: loc}
}

// Passed indica si todas las verificaciones pasaron.
func Passed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Run ejecuta todas las verificaciones. Un error solo se devuelve si la base no responde;
// las fallas de cada verificación van en los resultados.
func (c *Checker) Run(ctx context.Context) ([]CheckResult, error) {
	missing, err := store.MissingTables(ctx, c.db)
	if err != nil {
		return nil, err
	}
	results := []CheckResult{tablesResult(missing)}
	if len(missing) > 0 {
		return results, nil
	}

	repos := store.Repos(c.db)
	results = append(results, c.checkUsers(ctx, repos)...)
	results = append(results, checkRecipes(ctx, repos))
	results = append(results, c.checkDryRun(ctx, repos))
	return results, nil
}

func tablesResult(missing []string) CheckResult {
	if len(missing) == 0 {
		return CheckResult{Name: "tables", Passed: true, Detail: fmt.Sprintf("%d tablas", len(store.Tables))}
	}
	return CheckResult{Name: "tables", Detail: fmt.Sprintf("faltan: %v", missing)}
}

func (c *Checker) checkUsers(ctx context.Context, repos repository.Set) []CheckResult {
	authUC := auth.NewAuthUseCase(repos.Users, repos.Audit, auth.JWTConfig{})
	out := make([]CheckResult, 0, 3)
	for _, u := range DefaultUsers(c.cfg.Setup) {
		res := CheckResult{Name: "user " + u.Username}
		_, err := authUC.Authenticate(ctx, u.Username, u.Password)
		switch {
		case err == nil:
			res.Passed = true
			res.Detail = "autentica"
		case errors.Is(err, domain.ErrInvalidCredentials):
			res.Detail = "no existe o la contraseña fue cambiada"
		case errors.Is(err, domain.ErrUserInactive):
			res.Detail = "usuario inactivo"
		default:
			res.Detail = err.Error()
		}
		out = append(out, res)
	}
	return out
}

// checkRecipes comprueba que cada producto activo tenga receta con ingredientes activos.
func checkRecipes(ctx context.Context, repos repository.Set) CheckResult {
	res := CheckResult{Name: "recipes"}
	products, err := repos.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	var problems []string
	for _, p := range products {
		lines, err := repos.Recipes.ListByProduct(ctx, p.ID)
		if err != nil {
			res.Detail = err.Error()
			return res
		}
		if len(lines) == 0 {
			problems = append(problems, p.Name+": sin receta")
			continue
		}
		for _, l := range lines {
			ing, err := repos.Ingredients.GetByID(ctx, l.IngredientID)
			if err != nil {
				res.Detail = err.Error()
				return res
			}
			if ing == nil || !ing.IsActive {
				problems = append(problems, fmt.Sprintf("%s: ingrediente %s no disponible", p.Name, l.IngredientID))
			}
		}
	}
	if len(problems) > 0 {
		res.Detail = fmt.Sprintf("%v", problems)
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("%d productos con receta", len(products))
	return res
}

// checkDryRun cobra una unidad de un producto del menú en una transacción revertida.
func (c *Checker) checkDryRun(ctx context.Context, repos repository.Set) CheckResult {
	res := CheckResult{Name: "dry-run checkout"}
	owner, err := repos.Users.GetByUsername(ctx, OwnerUsername)
	if err != nil || owner == nil {
		res.Detail = "no hay owner para cobrar"
		return res
	}
	products, err := repos.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	if len(products) == 0 {
		res.Passed = true
		res.Detail = "menú vacío, se omite"
		return res
	}
	before, err := repos.Orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	uc := pos.NewUseCase(repos, dryRunner{store.NewTxRunner(c.db.DB)}, c.loc)
	actor := pos.Actor{ID: owner.ID, Role: owner.Role}
	var lastErr error
	for _, p := range products {
		order, err := uc.Checkout(ctx, actor, dto.CheckoutRequest{
			Items:          []dto.CartItem{{ProductID: p.ID, Quantity: 1}},
			PaymentMethod:  entity.PaymentCash,
			AmountTendered: p.Price.Add(decimal.NewFromInt(100)),
		})
		if err != nil {
			lastErr = err
			continue
		}
		after, err := repos.Orders.List(ctx, repository.OrderFilter{})
		if err != nil {
			res.Detail = err.Error()
			return res
		}
		if len(after) != len(before) {
			res.Detail = "el pedido de prueba quedó guardado"
			return res
		}
		res.Passed = true
		res.Detail = fmt.Sprintf("%s x1 = %s (revertido)", p.Name, order.TotalAmount.StringFixed(2))
		return res
	}
	res.Detail = lastErr.Error()
	return res
}

// dryRunner expone DryRun como ports.TxRunner.
type dryRunner struct {
	r *store.TxRunner
}

func (d dryRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	return d.r.DryRun(ctx, fn)
}
