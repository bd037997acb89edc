package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// ProductUseCase menú, recetas y bebidas personalizadas.
type ProductUseCase struct {
	repos repository.Set
	tx    ports.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repos repository.Set, tx ports.TxRunner) *ProductUseCase {
	return &ProductUseCase{repos: repos, tx: tx}
}

// Create agrega un producto al menú.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: precio y costo no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Price:       in.Price.Round(2),
		Cost:        in.Cost.Round(2),
		Description: in.Description,
		ImagePath:   in.ImagePath,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditProductCreate, "products", p.ID, nil, toProductResponse(p))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update modifica los campos enviados.
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var p *entity.Product
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		var err error
		if p, err = getProduct(ctx, r.Products, id); err != nil {
			return err
		}
		before := toProductResponse(p)
		if in.Name != nil {
			if p.Name = strings.TrimSpace(*in.Name); p.Name == "" {
				return fmt.Errorf("%w: el nombre no puede estar vacío", domain.ErrInvalidInput)
			}
		}
		if in.Category != nil {
			if p.Category = strings.TrimSpace(*in.Category); p.Category == "" {
				return fmt.Errorf("%w: la categoría no puede estar vacía", domain.ErrInvalidInput)
			}
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			p.Price = in.Price.Round(2)
		}
		if in.Cost != nil {
			if in.Cost.IsNegative() {
				return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
			}
			p.Cost = in.Cost.Round(2)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.ImagePath != nil {
			p.ImagePath = *in.ImagePath
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		p.UpdatedAt = time.Now().UTC()
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditProductUpdate, "products", p.ID, before, toProductResponse(p))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Deactivate retira el producto del menú (las ventas históricas lo conservan).
func (uc *ProductUseCase) Deactivate(ctx context.Context, actorID, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		p, err := getProduct(ctx, r.Products, id)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return nil
		}
		p.IsActive = false
		p.UpdatedAt = time.Now().UTC()
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditProductDelete, "products", p.ID, nil, nil)
	})
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := getProduct(ctx, uc.repos.Products, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List productos ordenados por categoría y nombre.
func (uc *ProductUseCase) List(ctx context.Context, category string, includeInactive bool) ([]*dto.ProductResponse, error) {
	ps, err := uc.repos.Products.List(ctx, repository.ProductFilter{Category: category, IncludeInactive: includeInactive})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Categories categorías con productos activos.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := uc.repos.Products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// ─── Recetas ──────────────────────────────────────────────────────────────────

// GetRecipe receta del producto con el costo de ingredientes por unidad.
func (uc *ProductUseCase) GetRecipe(ctx context.Context, productID string) (*dto.RecipeResponse, error) {
	p, err := getProduct(ctx, uc.repos.Products, productID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Recipes.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.RecipeResponse{ProductID: p.ID, ProductName: p.Name, Lines: make([]dto.RecipeLineDTO, 0, len(lines)), UnitCost: decimal.Zero}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.RecipeLineDTO{
			IngredientID:     l.IngredientID,
			IngredientName:   l.IngredientName,
			Unit:             l.Unit,
			QuantityRequired: l.QuantityRequired,
		})
		ing, err := uc.repos.Ingredients.GetByID(ctx, l.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing != nil {
			out.UnitCost = out.UnitCost.Add(l.QuantityRequired.Mul(ing.CostPerUnit))
		}
	}
	out.UnitCost = out.UnitCost.Round(2)
	return out, nil
}

// SetRecipe reemplaza la receta completa. Cada ingrediente debe existir y aparecer una sola vez.
func (uc *ProductUseCase) SetRecipe(ctx context.Context, actorID, productID string, in dto.SetRecipeRequest) (*dto.RecipeResponse, error) {
	seen := make(map[string]bool, len(in.Lines))
	lines := make([]entity.RecipeLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.IngredientID == "" || !l.QuantityRequired.IsPositive() {
			return nil, fmt.Errorf("%w: cada línea necesita ingrediente y cantidad > 0", domain.ErrInvalidInput)
		}
		if seen[l.IngredientID] {
			return nil, fmt.Errorf("%w: ingrediente repetido en la receta", domain.ErrInvalidInput)
		}
		seen[l.IngredientID] = true
		lines = append(lines, entity.RecipeLine{ID: uuid.New().String(), ProductID: productID, IngredientID: l.IngredientID, QuantityRequired: l.QuantityRequired})
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		if _, err := getProduct(ctx, r.Products, productID); err != nil {
			return err
		}
		for _, l := range lines {
			ing, err := r.Ingredients.GetByID(ctx, l.IngredientID)
			if err != nil {
				return err
			}
			if ing == nil {
				return fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, l.IngredientID)
			}
		}
		if err := r.Recipes.Replace(ctx, productID, lines); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditRecipeUpdate, "menu_recipes", productID, nil, in.Lines)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetRecipe(ctx, productID)
}

// ─── Bebidas personalizadas ───────────────────────────────────────────────────

// CreateCustomDrink guarda una variación de un producto. Sin precio se usa el del producto base.
func (uc *ProductUseCase) CreateCustomDrink(ctx context.Context, userID string, in dto.CreateCustomDrinkRequest) (*dto.CustomDrinkResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	price := in.Price
	if in.BaseProductID != "" {
		base, err := getProduct(ctx, uc.repos.Products, in.BaseProductID)
		if err != nil {
			return nil, err
		}
		if price.IsZero() {
			price = base.Price
		}
	}
	d := &entity.CustomDrink{
		ID:              uuid.New().String(),
		Name:            name,
		BaseProductID:   in.BaseProductID,
		CreatedByUserID: userID,
		Price:           price.Round(2),
		Ingredients:     in.Ingredients,
		Instructions:    in.Instructions,
		IsFavorite:      in.IsFavorite,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.repos.CustomDrinks.Create(ctx, d); err != nil {
		return nil, err
	}
	return toCustomDrinkResponse(d), nil
}

// ListCustomDrinks bebidas del usuario.
func (uc *ProductUseCase) ListCustomDrinks(ctx context.Context, userID string) ([]*dto.CustomDrinkResponse, error) {
	ds, err := uc.repos.CustomDrinks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomDrinkResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toCustomDrinkResponse(d))
	}
	return out, nil
}

func getProduct(ctx context.Context, repo repository.ProductRepository, id string) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCustomDrinkResponse(d *entity.CustomDrink) *dto.CustomDrinkResponse {
	return &dto.CustomDrinkResponse{
		ID:            d.ID,
		Name:          d.Name,
		BaseProductID: d.BaseProductID,
		Price:         d.Price,
		Ingredients:   d.Ingredients,
		Instructions:  d.Instructions,
		IsFavorite:    d.IsFavorite,
		CreatedAt:     d.CreatedAt,
	}
}
