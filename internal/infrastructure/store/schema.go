package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
)

// SchemaVersion versión del esquema creada por CreateSchema.
const SchemaVersion = "1"

// Tables tablas de la aplicación en orden de creación.
var Tables = []string{
	"users", "products", "ingredients", "inventory", "transactions", "orders",
	"order_items", "menu_recipes", "custom_drinks", "reports", "audit_log", "settings",
}

func models() []any {
	return []any{
		(*userModel)(nil),
		(*productModel)(nil),
		(*ingredientModel)(nil),
		(*stockModel)(nil),
		(*transactionModel)(nil),
		(*orderModel)(nil),
		(*orderItemModel)(nil),
		(*recipeModel)(nil),
		(*customDrinkModel)(nil),
		(*reportModel)(nil),
		(*auditModel)(nil),
		(*settingModel)(nil),
	}
}

type index struct {
	name    string
	model   any
	columns []string
	unique  bool
}

var indexes = []index{
	{"idx_products_category", (*productModel)(nil), []string{"category"}, false},
	{"idx_transactions_created_at", (*transactionModel)(nil), []string{"created_at"}, false},
	{"idx_transactions_ingredient", (*transactionModel)(nil), []string{"ingredient_id"}, false},
	{"idx_transactions_user", (*transactionModel)(nil), []string{"user_id"}, false},
	{"idx_orders_created_at", (*orderModel)(nil), []string{"created_at"}, false},
	{"idx_orders_status", (*orderModel)(nil), []string{"status"}, false},
	{"idx_order_items_order", (*orderItemModel)(nil), []string{"order_id"}, false},
	{"idx_menu_recipes_product_ingredient", (*recipeModel)(nil), []string{"product_id", "ingredient_id"}, true},
	{"idx_custom_drinks_user", (*customDrinkModel)(nil), []string{"created_by_user_id"}, false},
	{"idx_audit_log_timestamp", (*auditModel)(nil), []string{"timestamp"}, false},
}

// CreateSchema crea tablas e índices si no existen. Es idempotente.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, m := range models() {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("store: crear tabla %T: %w", m, err)
		}
	}
	mysqlDB := IsMySQL(db)
	for _, ix := range indexes {
		q := db.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.columns...)
		if ix.unique {
			q = q.Unique()
		}
		// MySQL no soporta CREATE INDEX IF NOT EXISTS: se ignora el error 1061 (índice duplicado).
		if !mysqlDB {
			q = q.IfNotExists()
		}
		if _, err := q.Exec(ctx); err != nil {
			var me *mysql.MySQLError
			if mysqlDB && errors.As(err, &me) && me.Number == 1061 {
				continue
			}
			return fmt.Errorf("store: crear índice %s: %w", ix.name, err)
		}
	}
	return nil
}

// DropSchema elimina todas las tablas (usado por setup --reset en motores sin archivo).
func DropSchema(ctx context.Context, db bun.IDB) error {
	ms := models()
	for i := len(ms) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(ms[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("store: eliminar tabla %T: %w", ms[i], err)
		}
	}
	return nil
}

// MissingTables devuelve las tablas esperadas que no existen.
func MissingTables(ctx context.Context, db bun.IDB) ([]string, error) {
	var missing []string
	for _, t := range Tables {
		_, err := db.NewSelect().TableExpr(t).ColumnExpr("1").Limit(1).Exec(ctx)
		if err == nil {
			continue
		}
		if isMissingTable(err) {
			missing = append(missing, t)
			continue
		}
		return nil, fmt.Errorf("store: verificar tabla %s: %w", t, err)
	}
	return missing, nil
}

func isMissingTable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") || // sqlite
		strings.Contains(msg, "does not exist") || // postgres (42P01)
		strings.Contains(msg, "doesn't exist") // mysql (1146)
}

// IntegrityCheck ejecuta PRAGMA integrity_check en SQLite. En otros motores no hace nada.
func IntegrityCheck(ctx context.Context, db bun.IDB) error {
	if !IsSQLite(db) {
		return nil
	}
	var results []string
	if err := db.NewRaw("PRAGMA integrity_check").Scan(ctx, &results); err != nil {
		return fmt.Errorf("store: integrity_check: %w", err)
	}
	if len(results) == 1 && results[0] == "ok" {
		return nil
	}
	return fmt.Errorf("store: base de datos corrupta: %s", strings.Join(results, "; "))
}
