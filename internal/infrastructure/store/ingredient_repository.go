package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación de IngredientRepository sobre bun.
type IngredientRepo struct {
	db bun.IDB
}

// NewIngredientRepository construye el adaptador de ingredientes.
func NewIngredientRepository(db bun.IDB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// Create persiste un ingrediente.
func (r *IngredientRepo) Create(ctx context.Context, ing *entity.Ingredient) error {
	if _, err := r.db.NewInsert().Model(toIngredientModel(ing)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingrediente %q", domain.ErrDuplicate, ing.Name)
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene un ingrediente por ID.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.findOne(ctx, "i.id = ?", id)
}

// GetByName obtiene un ingrediente por nombre exacto.
func (r *IngredientRepo) GetByName(ctx context.Context, name string) (*entity.Ingredient, error) {
	return r.findOne(ctx, "i.name = ?", name)
}

func (r *IngredientRepo) findOne(ctx context.Context, where string, arg any) (*entity.Ingredient, error) {
	m := new(ingredientModel)
	if err := r.db.NewSelect().Model(m).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return m.toEntity(), nil
}

// Update actualiza los datos del ingrediente (no el stock).
func (r *IngredientRepo) Update(ctx context.Context, ing *entity.Ingredient) error {
	res, err := r.db.NewUpdate().Model(toIngredientModel(ing)).
		Column("name", "unit", "cost_per_unit", "reorder_level", "description", "is_active", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingrediente %q", domain.ErrDuplicate, ing.Name)
		}
		return fmt.Errorf("update ingredient: %w", err)
	}
	return expectAffected(res, "ingredient")
}

// ListWithStock ingredientes con su stock, ordenados por nombre.
func (r *IngredientRepo) ListWithStock(ctx context.Context, includeInactive bool) ([]entity.IngredientStock, error) {
	var ms []*ingredientModel
	q := r.db.NewSelect().Model(&ms).Order("i.name ASC")
	if !includeInactive {
		q = q.Where("i.is_active = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	var stock []*stockModel
	if err := r.db.NewSelect().Model(&stock).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	byID := make(map[string]*stockModel, len(stock))
	for _, s := range stock {
		byID[s.IngredientID] = s
	}
	out := make([]entity.IngredientStock, 0, len(ms))
	for _, m := range ms {
		out = append(out, joinStock(m, byID[m.ID]))
	}
	return out, nil
}

// GetWithStock un ingrediente con su stock; (nil, nil) si no existe.
func (r *IngredientRepo) GetWithStock(ctx context.Context, id string) (*entity.IngredientStock, error) {
	m := new(ingredientModel)
	if err := r.db.NewSelect().Model(m).Where("i.id = ?", id).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	s := new(stockModel)
	if err := r.db.NewSelect().Model(s).Where("s.ingredient_id = ?", id).Limit(1).Scan(ctx); err != nil {
		if !isNoRows(err) {
			return nil, fmt.Errorf("get stock: %w", err)
		}
		s = nil
	}
	out := joinStock(m, s)
	return &out, nil
}

func joinStock(m *ingredientModel, s *stockModel) entity.IngredientStock {
	is := entity.IngredientStock{Ingredient: *m.toEntity()}
	if s != nil {
		is.HasStock = true
		is.Quantity = s.Quantity
		is.LastRestocked = s.LastRestocked
		is.ExpiryDate = s.ExpiryDate
		is.Location = s.Location
		is.Supplier = s.Supplier
	}
	return is
}

// ─── Stock ────────────────────────────────────────────────────────────────────

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo existencias por ingrediente.
type StockRepo struct {
	db bun.IDB
}

// NewStockRepository construye el adaptador de stock.
func NewStockRepository(db bun.IDB) *StockRepo {
	return &StockRepo{db: db}
}

// Get devuelve (nil, nil) si el ingrediente no tiene fila de stock.
func (r *StockRepo) Get(ctx context.Context, ingredientID string) (*entity.StockLevel, error) {
	m := new(stockModel)
	if err := r.db.NewSelect().Model(m).Where("s.ingredient_id = ?", ingredientID).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return m.toEntity(), nil
}

// Upsert inserta o actualiza la fila de stock del ingrediente.
func (r *StockRepo) Upsert(ctx context.Context, s *entity.StockLevel) error {
	m := toStockModel(s)
	exists, err := r.db.NewSelect().Model((*stockModel)(nil)).Where("s.ingredient_id = ?", s.IngredientID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check stock: %w", err)
	}
	if exists {
		_, err = r.db.NewUpdate().Model(m).WherePK().Exec(ctx)
	} else {
		_, err = r.db.NewInsert().Model(m).Exec(ctx)
	}
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
