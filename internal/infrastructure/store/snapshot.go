package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SnapshotVersion versión del formato de respaldo.
const SnapshotVersion = 1

const restoreChunk = 200

// Snapshot copia completa de todas las tablas.
type Snapshot struct {
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	Users        []*userModel        `json:"users"`
	Products     []*productModel     `json:"products"`
	Ingredients  []*ingredientModel  `json:"ingredients"`
	Stock        []*stockModel       `json:"inventory"`
	Transactions []*transactionModel `json:"transactions"`
	Orders       []*orderModel       `json:"orders"`
	OrderItems   []*orderItemModel   `json:"order_items"`
	Recipes      []*recipeModel      `json:"menu_recipes"`
	CustomDrinks []*customDrinkModel `json:"custom_drinks"`
	Reports      []*reportModel      `json:"reports"`
	Audit        []*auditModel       `json:"audit_log"`
	Settings     []*settingModel     `json:"settings"`
}

// Rows total de filas del respaldo.
func (s *Snapshot) Rows() int {
	return len(s.Users) + len(s.Products) + len(s.Ingredients) + len(s.Stock) + len(s.Transactions) +
		len(s.Orders) + len(s.OrderItems) + len(s.Recipes) + len(s.CustomDrinks) + len(s.Reports) +
		len(s.Audit) + len(s.Settings)
}

// TakeSnapshot lee todas las tablas.
func TakeSnapshot(ctx context.Context, db bun.IDB) (*Snapshot, error) {
	s := &Snapshot{Version: SnapshotVersion, CreatedAt: time.Now().UTC()}
	reads := []struct {
		name string
		dest any
	}{
		{"users", &s.Users},
		{"products", &s.Products},
		{"ingredients", &s.Ingredients},
		{"inventory", &s.Stock},
		{"transactions", &s.Transactions},
		{"orders", &s.Orders},
		{"order_items", &s.OrderItems},
		{"menu_recipes", &s.Recipes},
		{"custom_drinks", &s.CustomDrinks},
		{"reports", &s.Reports},
		{"audit_log", &s.Audit},
		{"settings", &s.Settings},
	}
	for _, r := range reads {
		if err := db.NewSelect().Model(r.dest).Scan(ctx); err != nil {
			return nil, fmt.Errorf("store: leer %s: %w", r.name, err)
		}
	}
	for _, o := range s.Orders {
		o.Items = nil
	}
	return s, nil
}

// RestoreSnapshot reemplaza el contenido de todas las tablas. Debe ejecutarse dentro de una transacción.
func RestoreSnapshot(ctx context.Context, db bun.IDB, s *Snapshot) error {
	if s.Version > SnapshotVersion {
		return fmt.Errorf("store: versión de respaldo %d no soportada", s.Version)
	}
	ms := models()
	for i := len(ms) - 1; i >= 0; i-- {
		if _, err := db.NewDelete().Model(ms[i]).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("store: vaciar %T: %w", ms[i], err)
		}
	}
	if err := insertChunks(ctx, db, "users", s.Users); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "products", s.Products); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "ingredients", s.Ingredients); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "inventory", s.Stock); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "transactions", s.Transactions); err != nil {
		return err
	}
	for _, o := range s.Orders {
		o.Items = nil
	}
	if err := insertChunks(ctx, db, "orders", s.Orders); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "order_items", s.OrderItems); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "menu_recipes", s.Recipes); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "custom_drinks", s.CustomDrinks); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "reports", s.Reports); err != nil {
		return err
	}
	if err := insertChunks(ctx, db, "audit_log", s.Audit); err != nil {
		return err
	}
	return insertChunks(ctx, db, "settings", s.Settings)
}

func insertChunks[T any](ctx context.Context, db bun.IDB, table string, rows []*T) error {
	for start := 0; start < len(rows); start += restoreChunk {
		end := min(start+restoreChunk, len(rows))
		chunk := rows[start:end]
		if _, err := db.NewInsert().Model(&chunk).Exec(ctx); err != nil {
			return fmt.Errorf("store: restaurar %s: %w", table, err)
		}
	}
	return nil
}
