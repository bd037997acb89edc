package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/domain/security"
	"github.com/jhoicas/cafecraft/pkg/config"
)

// Usuarios por defecto.
const (
	OwnerUsername = "owner"
)

// DefaultUser cuenta sembrada por setup.
type DefaultUser struct {
	Username string
	FullName string
	Role     string
	Password string
}

// DefaultUsers owner, employee1 y employee2 con las contraseñas configuradas.
func DefaultUsers(cfg config.SetupConfig) []DefaultUser {
	return []DefaultUser{
		{Username: OwnerUsername, FullName: "Shop Owner", Role: entity.RoleOwner, Password: cfg.OwnerPassword},
		{Username: "employee1", FullName: "Employee One", Role: entity.RoleEmployee, Password: cfg.EmployeePassword},
		{Username: "employee2", FullName: "Employee Two", Role: entity.RoleEmployee, Password: cfg.EmployeePassword},
	}
}

type sampleIngredient struct {
	name, unit, cost, reorder, initial string
}

type sampleProduct struct {
	name, category, price string
	recipe                map[string]string
}

var sampleIngredients = []sampleIngredient{
	{"Coffee Beans", "g", "1.20", "500", "5000"},
	{"Milk", "ml", "0.08", "2000", "20000"},
	{"Sugar Syrup", "ml", "0.15", "500", "3000"},
	{"Green Tea Leaves", "g", "2.00", "100", "1000"},
	{"Croissant", "pcs", "35", "10", "40"},
	{"Muffin", "pcs", "30", "10", "40"},
	{"Bread Slice", "pcs", "6", "20", "100"},
	{"Ham", "g", "0.60", "500", "3000"},
	{"Cheese", "g", "0.70", "500", "3000"},
	{"Cups", "pcs", "3", "100", "1000"},
}

var sampleProducts = []sampleProduct{
	{"Espresso", "Coffee", "120", map[string]string{"Coffee Beans": "18", "Cups": "1"}},
	{"Americano", "Coffee", "130", map[string]string{"Coffee Beans": "18", "Cups": "1"}},
	{"Cappuccino", "Coffee", "150", map[string]string{"Coffee Beans": "18", "Milk": "150", "Cups": "1"}},
	{"Latte", "Coffee", "160", map[string]string{"Coffee Beans": "18", "Milk": "220", "Sugar Syrup": "10", "Cups": "1"}},
	{"Green Tea", "Tea", "110", map[string]string{"Green Tea Leaves": "5", "Cups": "1"}},
	{"Croissant", "Pastry", "95", map[string]string{"Croissant": "1"}},
	{"Muffin", "Pastry", "85", map[string]string{"Muffin": "1"}},
	{"Sandwich", "Snack", "180", map[string]string{"Bread Slice": "2", "Ham": "60", "Cheese": "30"}},
}

// seedUsers crea las cuentas por defecto que falten. Devuelve los usernames creados.
func seedUsers(ctx context.Context, r repository.Set, users []DefaultUser, now time.Time) ([]string, error) {
	var created []string
	for _, du := range users {
		existing, err := r.Users.GetByUsername(ctx, du.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		u, err := newUser(du, now)
		if err != nil {
			return nil, err
		}
		if err := r.Users.Create(ctx, u); err != nil {
			return nil, err
		}
		created = append(created, du.Username)
	}
	return created, nil
}

func newUser(du DefaultUser, now time.Time) (*entity.User, error) {
	if err := security.ValidatePassword(du.Password); err != nil {
		return nil, fmt.Errorf("setup: contraseña de %s: %w", du.Username, err)
	}
	hash, err := security.HashPassword(du.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     du.Username,
		PasswordHash: hash,
		FullName:     du.FullName,
		Role:         du.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	access.DefaultPermissions(u.Role).Apply(u)
	return u, nil
}

// ensureOwner garantiza al menos un owner activo: reactiva la cuenta owner o la crea.
// Devuelve true si tuvo que reparar algo.
func ensureOwner(ctx context.Context, r repository.Set, owner DefaultUser, now time.Time) (bool, error) {
	n, err := r.Users.CountActiveByRole(ctx, entity.RoleOwner)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	u, err := r.Users.GetByUsername(ctx, owner.Username)
	if err != nil {
		return false, err
	}
	if u == nil {
		u, err = newUser(owner, now)
		if err != nil {
			return false, err
		}
		return true, r.Users.Create(ctx, u)
	}
	u.Role = entity.RoleOwner
	u.IsActive = true
	u.UpdatedAt = now
	access.DefaultPermissions(u.Role).Apply(u)
	return true, r.Users.Update(ctx, u)
}

// seedMenu crea ingredientes con stock inicial, productos y recetas. Solo si no hay productos.
func seedMenu(ctx context.Context, r repository.Set, userID string, now time.Time) (int, error) {
	n, err := r.Products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	ingredients := make(map[string]*entity.Ingredient, len(sampleIngredients))
	for _, si := range sampleIngredients {
		ing, err := r.Ingredients.GetByName(ctx, si.name)
		if err != nil {
			return 0, err
		}
		if ing == nil {
			ing = &entity.Ingredient{
				ID:           uuid.New().String(),
				Name:         si.name,
				Unit:         si.unit,
				CostPerUnit:  decimal.RequireFromString(si.cost),
				ReorderLevel: decimal.RequireFromString(si.reorder),
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := r.Ingredients.Create(ctx, ing); err != nil {
				return 0, err
			}
			qty := decimal.RequireFromString(si.initial)
			restocked := now
			if err := r.Stock.Upsert(ctx, &entity.StockLevel{IngredientID: ing.ID, Quantity: qty, LastRestocked: &restocked, UpdatedAt: now}); err != nil {
				return 0, err
			}
			err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
				ID:           uuid.New().String(),
				Type:         entity.TxTypePurchase,
				IngredientID: ing.ID,
				Quantity:     qty,
				UnitPrice:    ing.CostPerUnit,
				TotalAmount:  qty.Mul(ing.CostPerUnit).Round(2),
				UserID:       userID,
				Notes:        "Initial stock",
				CreatedAt:    now,
			})
			if err != nil {
				return 0, err
			}
		}
		ingredients[si.name] = ing
	}

	for _, sp := range sampleProducts {
		p := &entity.Product{
			ID:        uuid.New().String(),
			Name:      sp.name,
			Category:  sp.category,
			Price:     decimal.RequireFromString(sp.price),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		lines := make([]entity.RecipeLine, 0, len(sp.recipe))
		cost := decimal.Zero
		for name, q := range sp.recipe {
			ing := ingredients[name]
			qty := decimal.RequireFromString(q)
			cost = cost.Add(qty.Mul(ing.CostPerUnit))
			lines = append(lines, entity.RecipeLine{ID: uuid.New().String(), ProductID: p.ID, IngredientID: ing.ID, QuantityRequired: qty})
		}
		p.Cost = cost.Round(2)
		if err := r.Products.Create(ctx, p); err != nil {
			return 0, err
		}
		if err := r.Recipes.Replace(ctx, p.ID, lines); err != nil {
			return 0, err
		}
	}
	return len(sampleProducts), nil
}
