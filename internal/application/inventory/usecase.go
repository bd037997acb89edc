// Package inventory contiene los casos de uso de ingredientes y existencias.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	stockrules "github.com/jhoicas/cafecraft/internal/domain/inventory"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// UseCase alta, edición y consulta de ingredientes, y movimientos de stock.
type UseCase struct {
	repos repository.Set
	tx    ports.TxRunner
	loc   *time.Location
	now   func() time.Time
}

// NewUseCase construye el caso de uso. loc es la zona usada para interpretar fechas de filtros.
func NewUseCase(repos repository.Set, tx ports.TxRunner, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &UseCase{repos: repos, tx: tx, loc: loc, now: time.Now}
}

// AddIngredient crea el ingrediente con su fila de stock. Una cantidad inicial > 0 se registra como compra.
func (uc *UseCase) AddIngredient(ctx context.Context, userID string, in dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	name, unit := strings.TrimSpace(in.Name), strings.TrimSpace(in.Unit)
	if name == "" || unit == "" {
		return nil, fmt.Errorf("%w: nombre y unidad son obligatorios", domain.ErrInvalidInput)
	}
	if in.CostPerUnit.IsNegative() || in.InitialQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: costo y cantidad inicial no pueden ser negativos", domain.ErrInvalidInput)
	}
	reorder := entity.DefaultReorderLevel
	if in.ReorderLevel != nil {
		if in.ReorderLevel.IsNegative() {
			return nil, fmt.Errorf("%w: nivel de reorden negativo", domain.ErrInvalidInput)
		}
		reorder = *in.ReorderLevel
	}
	now := uc.now().UTC()
	ing := &entity.Ingredient{
		ID:           uuid.New().String(),
		Name:         name,
		Unit:         unit,
		CostPerUnit:  in.CostPerUnit,
		ReorderLevel: reorder,
		Description:  in.Description,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stock := &entity.StockLevel{
		IngredientID: ing.ID,
		Quantity:     in.InitialQuantity,
		ExpiryDate:   utc(in.ExpiryDate),
		Location:     in.Location,
		Supplier:     in.Supplier,
		UpdatedAt:    now,
	}
	if in.InitialQuantity.IsPositive() {
		stock.LastRestocked = &now
	}

	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		if err := r.Ingredients.Create(ctx, ing); err != nil {
			return err
		}
		if err := r.Stock.Upsert(ctx, stock); err != nil {
			return err
		}
		if in.InitialQuantity.IsPositive() {
			err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
				ID:           uuid.New().String(),
				Type:         entity.TxTypePurchase,
				IngredientID: ing.ID,
				Quantity:     in.InitialQuantity,
				UnitPrice:    in.CostPerUnit,
				TotalAmount:  in.InitialQuantity.Mul(in.CostPerUnit).Round(2),
				UserID:       userID,
				Notes:        "Initial stock",
				CreatedAt:    now,
			})
			if err != nil {
				return err
			}
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditIngredientCreate, "ingredients", ing.ID, nil, map[string]any{
			"name": ing.Name, "unit": ing.Unit, "quantity": in.InitialQuantity,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, ing.ID)
}

// UpdateIngredient modifica los datos del ingrediente y de su fila de stock (no la cantidad).
func (uc *UseCase) UpdateIngredient(ctx context.Context, userID, id string, in dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		is, err := getWithStock(ctx, r.Ingredients, id)
		if err != nil {
			return err
		}
		ing := is.Ingredient
		if in.Name != nil {
			if ing.Name = strings.TrimSpace(*in.Name); ing.Name == "" {
				return fmt.Errorf("%w: el nombre no puede estar vacío", domain.ErrInvalidInput)
			}
		}
		if in.Unit != nil {
			if ing.Unit = strings.TrimSpace(*in.Unit); ing.Unit == "" {
				return fmt.Errorf("%w: la unidad no puede estar vacía", domain.ErrInvalidInput)
			}
		}
		if in.CostPerUnit != nil {
			if in.CostPerUnit.IsNegative() {
				return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
			}
			ing.CostPerUnit = *in.CostPerUnit
		}
		if in.ReorderLevel != nil {
			if in.ReorderLevel.IsNegative() {
				return fmt.Errorf("%w: nivel de reorden negativo", domain.ErrInvalidInput)
			}
			ing.ReorderLevel = *in.ReorderLevel
		}
		if in.Description != nil {
			ing.Description = *in.Description
		}
		now := uc.now().UTC()
		ing.UpdatedAt = now
		if err := r.Ingredients.Update(ctx, &ing); err != nil {
			return err
		}
		if in.Location != nil || in.Supplier != nil || in.ExpiryDate != nil {
			stock := stockOf(is, now)
			if in.Location != nil {
				stock.Location = *in.Location
			}
			if in.Supplier != nil {
				stock.Supplier = *in.Supplier
			}
			if in.ExpiryDate != nil {
				stock.ExpiryDate = utc(in.ExpiryDate)
			}
			if err := r.Stock.Upsert(ctx, stock); err != nil {
				return err
			}
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditIngredientUpdate, "ingredients", ing.ID, nil, in)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Deactivate desactiva el ingrediente; deja de contar para stock bajo y valoración.
func (uc *UseCase) Deactivate(ctx context.Context, userID, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		ing, err := r.Ingredients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ing == nil {
			return fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, id)
		}
		if !ing.IsActive {
			return nil
		}
		ing.IsActive = false
		ing.UpdatedAt = uc.now().UTC()
		if err := r.Ingredients.Update(ctx, ing); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, userID, entity.AuditIngredientUpdate, "ingredients", ing.ID, nil, map[string]bool{"is_active": false})
	})
}

// List ingredientes con stock, ordenados por nombre.
func (uc *UseCase) List(ctx context.Context, includeInactive bool) ([]*dto.IngredientResponse, error) {
	items, err := uc.repos.Ingredients.ListWithStock(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.IngredientResponse, 0, len(items))
	for _, is := range items {
		out = append(out, toIngredientResponse(is))
	}
	return out, nil
}

// Get un ingrediente con su stock.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.IngredientResponse, error) {
	is, err := getWithStock(ctx, uc.repos.Ingredients, id)
	if err != nil {
		return nil, err
	}
	return toIngredientResponse(*is), nil
}

// LowStock ingredientes activos bajo el nivel de reorden o sin fila de stock.
func (uc *UseCase) LowStock(ctx context.Context) ([]*dto.IngredientResponse, error) {
	items, err := uc.repos.Ingredients.ListWithStock(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.IngredientResponse, 0)
	for _, is := range items {
		if is.IsLow() {
			out = append(out, toIngredientResponse(is))
		}
	}
	return out, nil
}

// Value valor del inventario activo (Σ cantidad × costo unitario).
func (uc *UseCase) Value(ctx context.Context) (*dto.InventoryValueResponse, error) {
	items, err := uc.repos.Ingredients.ListWithStock(ctx, false)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryValueResponse{Ingredients: len(items), TotalValue: stockrules.StockValue(items)}, nil
}

// Transactions historial de movimientos filtrado, del más reciente al más antiguo.
func (uc *UseCase) Transactions(ctx context.Context, q dto.TransactionQuery) ([]*dto.TransactionResponse, error) {
	if q.Type != "" && !entity.ValidTxType(q.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, q.Type)
	}
	f := repository.TransactionFilter{Type: q.Type, IngredientID: q.IngredientID, Limit: q.Limit}
	if q.Start != "" || q.End != "" {
		p, err := dto.DateRange{Start: q.Start, End: q.End}.Resolve(uc.loc, uc.now())
		if err != nil {
			return nil, err
		}
		f.From, f.To = &p.From, &p.To
	}
	if f.Limit <= 0 {
		f.Limit = 200
	}
	txs, err := uc.repos.Transactions.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, &dto.TransactionResponse{
			ID:           t.ID,
			Type:         t.Type,
			IngredientID: t.IngredientID,
			ProductID:    t.ProductID,
			OrderID:      t.OrderID,
			Quantity:     t.Quantity,
			UnitPrice:    t.UnitPrice,
			TotalAmount:  t.TotalAmount,
			UserID:       t.UserID,
			Notes:        t.Notes,
			CreatedAt:    t.CreatedAt,
		})
	}
	return out, nil
}

func getWithStock(ctx context.Context, repo repository.IngredientRepository, id string) (*entity.IngredientStock, error) {
	is, err := repo.GetWithStock(ctx, id)
	if err != nil {
		return nil, err
	}
	if is == nil {
		return nil, fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, id)
	}
	return is, nil
}

// stockOf fila de stock a partir del join; sin fila previa arranca en cero.
func stockOf(is *entity.IngredientStock, now time.Time) *entity.StockLevel {
	return &entity.StockLevel{
		IngredientID:  is.ID,
		Quantity:      is.Quantity,
		LastRestocked: is.LastRestocked,
		ExpiryDate:    is.ExpiryDate,
		Location:      is.Location,
		Supplier:      is.Supplier,
		UpdatedAt:     now,
	}
}

func toIngredientResponse(is entity.IngredientStock) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:            is.ID,
		Name:          is.Name,
		Unit:          is.Unit,
		CostPerUnit:   is.CostPerUnit,
		ReorderLevel:  is.ReorderLevel,
		Description:   is.Description,
		IsActive:      is.IsActive,
		Quantity:      is.Quantity,
		HasStock:      is.HasStock,
		IsLow:         is.IsLow(),
		StockValue:    is.Quantity.Mul(is.CostPerUnit).Round(2),
		LastRestocked: is.LastRestocked,
		ExpiryDate:    is.ExpiryDate,
		Location:      is.Location,
		Supplier:      is.Supplier,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
