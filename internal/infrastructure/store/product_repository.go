package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre bun.
type ProductRepo struct {
	db bun.IDB
}

// NewProductRepository construye el adaptador de persistencia para productos del menú.
func NewProductRepository(db bun.IDB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste un producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if _, err := r.db.NewInsert().Model(toProductModel(p)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, "p.id = ?", id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.findOne(ctx, "p.name = ?", name)
}

func (r *ProductRepo) findOne(ctx context.Context, where string, arg any) (*entity.Product, error) {
	m := new(productModel)
	if err := r.db.NewSelect().Model(m).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return m.toEntity(), nil
}

// Update actualiza todos los campos editables.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.NewUpdate().Model(toProductModel(p)).
		Column("name", "category", "price", "cost", "description", "image_path", "is_active", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, p.Name)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return expectAffected(res, "product")
}

// List lista productos ordenados por categoría y nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var ms []*productModel
	q := r.db.NewSelect().Model(&ms).Order("p.category ASC", "p.name ASC")
	if !f.IncludeInactive {
		q = q.Where("p.is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("p.category = ?", f.Category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Categories categorías con productos activos, ordenadas.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := r.db.NewSelect().Model((*productModel)(nil)).
		Column("category").Distinct().
		Where("p.is_active = ?", true).
		Order("category ASC").
		Scan(ctx, &cats)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Count total de productos (activos e inactivos).
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*productModel)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// ─── Recetas ──────────────────────────────────────────────────────────────────

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas de productos.
type RecipeRepo struct {
	db bun.IDB
}

// NewRecipeRepository construye el adaptador de recetas.
func NewRecipeRepository(db bun.IDB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// ListByProduct receta del producto con nombre y unidad de cada ingrediente.
func (r *RecipeRepo) ListByProduct(ctx context.Context, productID string) ([]entity.RecipeLine, error) {
	var ms []*recipeModel
	err := r.db.NewSelect().Model(&ms).
		Relation("Ingredient").
		Where("r.product_id = ?", productID).
		Order("ingredient.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipe: %w", err)
	}
	out := make([]entity.RecipeLine, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Replace borra la receta actual e inserta las líneas nuevas. Debe ejecutarse dentro de una transacción.
func (r *RecipeRepo) Replace(ctx context.Context, productID string, lines []entity.RecipeLine) error {
	if _, err := r.db.NewDelete().Model((*recipeModel)(nil)).Where("product_id = ?", productID).Exec(ctx); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	ms := make([]*recipeModel, 0, len(lines))
	for _, l := range lines {
		ms = append(ms, &recipeModel{ID: l.ID, ProductID: productID, IngredientID: l.IngredientID, QuantityRequired: l.QuantityRequired})
	}
	if _, err := r.db.NewInsert().Model(&ms).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingrediente repetido en la receta", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// ─── Bebidas personalizadas ───────────────────────────────────────────────────

var _ repository.CustomDrinkRepository = (*CustomDrinkRepo)(nil)

// CustomDrinkRepo bebidas personalizadas.
type CustomDrinkRepo struct {
	db bun.IDB
}

// NewCustomDrinkRepository construye el adaptador de bebidas personalizadas.
func NewCustomDrinkRepository(db bun.IDB) *CustomDrinkRepo {
	return &CustomDrinkRepo{db: db}
}

// Create persiste la bebida.
func (r *CustomDrinkRepo) Create(ctx context.Context, d *entity.CustomDrink) error {
	if _, err := r.db.NewInsert().Model(toCustomDrinkModel(d)).Exec(ctx); err != nil {
		return fmt.Errorf("insert custom drink: %w", err)
	}
	return nil
}

// ListByUser favoritas primero, luego las más recientes.
func (r *CustomDrinkRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CustomDrink, error) {
	var ms []*customDrinkModel
	err := r.db.NewSelect().Model(&ms).
		Where("cd.created_by_user_id = ?", userID).
		Order("cd.is_favorite DESC", "cd.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custom drinks: %w", err)
	}
	out := make([]*entity.CustomDrink, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}
