package entity

import "time"

// Acciones registradas en la bitácora.
const (
	AuditLogin            = "LOGIN"
	AuditUserCreate       = "USER_CREATE"
	AuditUserUpdate       = "USER_UPDATE"
	AuditUserPassword     = "USER_PASSWORD"
	AuditUserDeactivate   = "USER_DEACTIVATE"
	AuditUserReactivate   = "USER_REACTIVATE"
	AuditProductCreate    = "PRODUCT_CREATE"
	AuditProductUpdate    = "PRODUCT_UPDATE"
	AuditProductDelete    = "PRODUCT_DEACTIVATE"
	AuditRecipeUpdate     = "RECIPE_UPDATE"
	AuditIngredientCreate = "INGREDIENT_CREATE"
	AuditIngredientUpdate = "INGREDIENT_UPDATE"
	AuditStockChange      = "STOCK_CHANGE"
	AuditOrderCreate      = "ORDER_CREATE"
	AuditOrderComplete    = "ORDER_COMPLETE"
	AuditOrderCancel      = "ORDER_CANCEL"
	AuditSetup            = "SETUP"
	AuditRestore          = "RESTORE"
)

// AuditEntry entrada de la bitácora de auditoría. OldValue/NewValue son JSON.
type AuditEntry struct {
	ID        string
	UserID    string
	Action    string
	TableName string
	RecordID  string
	OldValue  string
	NewValue  string
	Timestamp time.Time
}
