package store

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// Modelos bun: espejo de las tablas. Las entidades de dominio no llevan tags de persistencia.

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                string     `bun:"id,pk,type:varchar(36)"`
	Username          string     `bun:"username,notnull,unique,type:varchar(64)"`
	PasswordHash      string     `bun:"password_hash,notnull,type:varchar(255)"`
	FullName          string     `bun:"full_name,notnull,type:varchar(128)"`
	Role              string     `bun:"role,notnull,type:varchar(32)"`
	IsActive          bool       `bun:"is_active,notnull"`
	CanPOS            bool       `bun:"can_pos,notnull"`
	CanInventory      bool       `bun:"can_inventory,notnull"`
	CanReports        bool       `bun:"can_reports,notnull"`
	CanUserManagement bool       `bun:"can_user_management,notnull"`
	LastLoginAt       *time.Time `bun:"last_login_at"`
	CreatedAt         time.Time  `bun:"created_at,notnull"`
	UpdatedAt         time.Time  `bun:"updated_at,notnull"`
}

func toUserModel(u *entity.User) *userModel {
	return &userModel{
		ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash, FullName: u.FullName, Role: u.Role,
		IsActive: u.IsActive, CanPOS: u.CanPOS, CanInventory: u.CanInventory, CanReports: u.CanReports,
		CanUserManagement: u.CanUserManagement, LastLoginAt: utcPtr(u.LastLoginAt),
		CreatedAt: u.CreatedAt.UTC(), UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID: m.ID, Username: m.Username, PasswordHash: m.PasswordHash, FullName: m.FullName, Role: m.Role,
		IsActive: m.IsActive, CanPOS: m.CanPOS, CanInventory: m.CanInventory, CanReports: m.CanReports,
		CanUserManagement: m.CanUserManagement, LastLoginAt: m.LastLoginAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type productModel struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          string          `bun:"id,pk,type:varchar(36)"`
	Name        string          `bun:"name,notnull,unique,type:varchar(128)"`
	Category    string          `bun:"category,notnull,type:varchar(64)"`
	Price       decimal.Decimal `bun:"price,notnull,type:decimal(12,2)"`
	Cost        decimal.Decimal `bun:"cost,notnull,type:decimal(12,2)"`
	Description string          `bun:"description,notnull,type:text"`
	ImagePath   string          `bun:"image_path,notnull,type:varchar(255)"`
	IsActive    bool            `bun:"is_active,notnull"`
	CreatedAt   time.Time       `bun:"created_at,notnull"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull"`
}

func toProductModel(p *entity.Product) *productModel {
	return &productModel{
		ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, Cost: p.Cost,
		Description: p.Description, ImagePath: p.ImagePath, IsActive: p.IsActive,
		CreatedAt: p.CreatedAt.UTC(), UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (m *productModel) toEntity() *entity.Product {
	return &entity.Product{
		ID: m.ID, Name: m.Name, Category: m.Category, Price: m.Price, Cost: m.Cost,
		Description: m.Description, ImagePath: m.ImagePath, IsActive: m.IsActive,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type ingredientModel struct {
	bun.BaseModel `bun:"table:ingredients,alias:i"`

	ID           string          `bun:"id,pk,type:varchar(36)"`
	Name         string          `bun:"name,notnull,unique,type:varchar(128)"`
	Unit         string          `bun:"unit,notnull,type:varchar(16)"`
	CostPerUnit  decimal.Decimal `bun:"cost_per_unit,notnull,type:decimal(14,4)"`
	ReorderLevel decimal.Decimal `bun:"reorder_level,notnull,type:decimal(14,3)"`
	Description  string          `bun:"description,notnull,type:text"`
	IsActive     bool            `bun:"is_active,notnull"`
	CreatedAt    time.Time       `bun:"created_at,notnull"`
	UpdatedAt    time.Time       `bun:"updated_at,notnull"`
}

func toIngredientModel(i *entity.Ingredient) *ingredientModel {
	return &ingredientModel{
		ID: i.ID, Name: i.Name, Unit: i.Unit, CostPerUnit: i.CostPerUnit, ReorderLevel: i.ReorderLevel,
		Description: i.Description, IsActive: i.IsActive, CreatedAt: i.CreatedAt.UTC(), UpdatedAt: i.UpdatedAt.UTC(),
	}
}

func (m *ingredientModel) toEntity() *entity.Ingredient {
	return &entity.Ingredient{
		ID: m.ID, Name: m.Name, Unit: m.Unit, CostPerUnit: m.CostPerUnit, ReorderLevel: m.ReorderLevel,
		Description: m.Description, IsActive: m.IsActive, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type stockModel struct {
	bun.BaseModel `bun:"table:inventory,alias:s"`

	IngredientID  string          `bun:"ingredient_id,pk,type:varchar(36)"`
	Quantity      decimal.Decimal `bun:"quantity,notnull,type:decimal(14,3)"`
	LastRestocked *time.Time      `bun:"last_restocked"`
	ExpiryDate    *time.Time      `bun:"expiry_date"`
	Location      string          `bun:"location,notnull,type:varchar(64)"`
	Supplier      string          `bun:"supplier,notnull,type:varchar(128)"`
	UpdatedAt     time.Time       `bun:"updated_at,notnull"`
}

func toStockModel(s *entity.StockLevel) *stockModel {
	return &stockModel{
		IngredientID: s.IngredientID, Quantity: s.Quantity, LastRestocked: utcPtr(s.LastRestocked),
		ExpiryDate: utcPtr(s.ExpiryDate), Location: s.Location, Supplier: s.Supplier, UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func (m *stockModel) toEntity() *entity.StockLevel {
	return &entity.StockLevel{
		IngredientID: m.IngredientID, Quantity: m.Quantity, LastRestocked: m.LastRestocked,
		ExpiryDate: m.ExpiryDate, Location: m.Location, Supplier: m.Supplier, UpdatedAt: m.UpdatedAt,
	}
}

type transactionModel struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID           string          `bun:"id,pk,type:varchar(36)"`
	Type         string          `bun:"type,notnull,type:varchar(16)"`
	IngredientID string          `bun:"ingredient_id,nullzero,type:varchar(36)"`
	ProductID    string          `bun:"product_id,nullzero,type:varchar(36)"`
	OrderID      string          `bun:"order_id,nullzero,type:varchar(36)"`
	Quantity     decimal.Decimal `bun:"quantity,notnull,type:decimal(14,3)"`
	UnitPrice    decimal.Decimal `bun:"unit_price,notnull,type:decimal(14,4)"`
	TotalAmount  decimal.Decimal `bun:"total_amount,notnull,type:decimal(12,2)"`
	UserID       string          `bun:"user_id,nullzero,type:varchar(36)"`
	Notes        string          `bun:"notes,notnull,type:text"`
	CreatedAt    time.Time       `bun:"created_at,notnull"`
}

func toTransactionModel(t *entity.InventoryTransaction) *transactionModel {
	return &transactionModel{
		ID: t.ID, Type: t.Type, IngredientID: t.IngredientID, ProductID: t.ProductID, OrderID: t.OrderID,
		Quantity: t.Quantity, UnitPrice: t.UnitPrice, TotalAmount: t.TotalAmount, UserID: t.UserID,
		Notes: t.Notes, CreatedAt: t.CreatedAt.UTC(),
	}
}

func (m *transactionModel) toEntity() *entity.InventoryTransaction {
	return &entity.InventoryTransaction{
		ID: m.ID, Type: m.Type, IngredientID: m.IngredientID, ProductID: m.ProductID, OrderID: m.OrderID,
		Quantity: m.Quantity, UnitPrice: m.UnitPrice, TotalAmount: m.TotalAmount, UserID: m.UserID,
		Notes: m.Notes, CreatedAt: m.CreatedAt,
	}
}

type orderModel struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID               string          `bun:"id,pk,type:varchar(36)"`
	OrderNumber      string          `bun:"order_number,notnull,unique,type:varchar(40)"`
	UserID           string          `bun:"user_id,notnull,type:varchar(36)"`
	CashierName      string          `bun:"cashier_name,notnull,type:varchar(128)"`
	CustomerName     string          `bun:"customer_name,notnull,type:varchar(128)"`
	Subtotal         decimal.Decimal `bun:"subtotal,notnull,type:decimal(12,2)"`
	DiscountPercent  decimal.Decimal `bun:"discount_percent,notnull,type:decimal(5,2)"`
	DiscountAmount   decimal.Decimal `bun:"discount_amount,notnull,type:decimal(12,2)"`
	TotalAmount      decimal.Decimal `bun:"total_amount,notnull,type:decimal(12,2)"`
	AmountTendered   decimal.Decimal `bun:"amount_tendered,notnull,type:decimal(12,2)"`
	ChangeDue        decimal.Decimal `bun:"change_due,notnull,type:decimal(12,2)"`
	PaymentMethod    string          `bun:"payment_method,notnull,type:varchar(20)"`
	PaymentReference string          `bun:"payment_reference,notnull,type:varchar(64)"`
	Status           string          `bun:"status,notnull,type:varchar(16)"`
	CreatedAt        time.Time       `bun:"created_at,notnull"`
	CompletedAt      *time.Time      `bun:"completed_at"`
	CancelledAt      *time.Time      `bun:"cancelled_at"`

	Items []*orderItemModel `bun:"rel:has-many,join:id=order_id"`
}

type orderItemModel struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID          string          `bun:"id,pk,type:varchar(36)"`
	OrderID     string          `bun:"order_id,notnull,type:varchar(36)"`
	Position    int             `bun:"position,notnull"`
	ProductID   string          `bun:"product_id,notnull,type:varchar(36)"`
	ProductName string          `bun:"product_name,notnull,type:varchar(128)"`
	Category    string          `bun:"category,notnull,type:varchar(64)"`
	Quantity    int             `bun:"quantity,notnull"`
	UnitPrice   decimal.Decimal `bun:"unit_price,notnull,type:decimal(12,2)"`
	UnitCost    decimal.Decimal `bun:"unit_cost,notnull,type:decimal(12,2)"`
	Subtotal    decimal.Decimal `bun:"subtotal,notnull,type:decimal(12,2)"`
	CreatedAt   time.Time       `bun:"created_at,notnull"`
}

func toOrderModel(o *entity.Order) (*orderModel, []*orderItemModel) {
	m := &orderModel{
		ID: o.ID, OrderNumber: o.OrderNumber, UserID: o.UserID, CashierName: o.CashierName,
		CustomerName: o.CustomerName, Subtotal: o.Subtotal, DiscountPercent: o.DiscountPercent,
		DiscountAmount: o.DiscountAmount, TotalAmount: o.TotalAmount, AmountTendered: o.AmountTendered,
		ChangeDue: o.ChangeDue, PaymentMethod: o.PaymentMethod, PaymentReference: o.PaymentReference,
		Status: o.Status, CreatedAt: o.CreatedAt.UTC(), CompletedAt: utcPtr(o.CompletedAt), CancelledAt: utcPtr(o.CancelledAt),
	}
	items := make([]*orderItemModel, 0, len(o.Items))
	for i, it := range o.Items {
		items = append(items, &orderItemModel{
			ID: it.ID, OrderID: o.ID, Position: i, ProductID: it.ProductID, ProductName: it.ProductName,
			Category: it.Category, Quantity: it.Quantity, UnitPrice: it.UnitPrice, UnitCost: it.UnitCost,
			Subtotal: it.Subtotal, CreatedAt: it.CreatedAt.UTC(),
		})
	}
	return m, items
}

func (m *orderModel) toEntity() *entity.Order {
	o := &entity.Order{
		ID: m.ID, OrderNumber: m.OrderNumber, UserID: m.UserID, CashierName: m.CashierName,
		CustomerName: m.CustomerName, Subtotal: m.Subtotal, DiscountPercent: m.DiscountPercent,
		DiscountAmount: m.DiscountAmount, TotalAmount: m.TotalAmount, AmountTendered: m.AmountTendered,
		ChangeDue: m.ChangeDue, PaymentMethod: m.PaymentMethod, PaymentReference: m.PaymentReference,
		Status: m.Status, CreatedAt: m.CreatedAt, CompletedAt: m.CompletedAt, CancelledAt: m.CancelledAt,
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ID: it.ID, OrderID: it.OrderID, ProductID: it.ProductID, ProductName: it.ProductName,
			Category: it.Category, Quantity: it.Quantity, UnitPrice: it.UnitPrice, UnitCost: it.UnitCost,
			Subtotal: it.Subtotal, CreatedAt: it.CreatedAt,
		})
	}
	return o
}

type recipeModel struct {
	bun.BaseModel `bun:"table:menu_recipes,alias:r"`

	ID               string          `bun:"id,pk,type:varchar(36)"`
	ProductID        string          `bun:"product_id,notnull,type:varchar(36)"`
	IngredientID     string          `bun:"ingredient_id,notnull,type:varchar(36)"`
	QuantityRequired decimal.Decimal `bun:"quantity_required,notnull,type:decimal(14,3)"`

	Ingredient *ingredientModel `bun:"rel:belongs-to,join:ingredient_id=id"`
}

func (m *recipeModel) toEntity() entity.RecipeLine {
	l := entity.RecipeLine{ID: m.ID, ProductID: m.ProductID, IngredientID: m.IngredientID, QuantityRequired: m.QuantityRequired}
	if m.Ingredient != nil {
		l.IngredientName = m.Ingredient.Name
		l.Unit = m.Ingredient.Unit
	}
	return l
}

type customDrinkModel struct {
	bun.BaseModel `bun:"table:custom_drinks,alias:cd"`

	ID              string          `bun:"id,pk,type:varchar(36)"`
	Name            string          `bun:"name,notnull,type:varchar(128)"`
	BaseProductID   string          `bun:"base_product_id,nullzero,type:varchar(36)"`
	CreatedByUserID string          `bun:"created_by_user_id,notnull,type:varchar(36)"`
	Price           decimal.Decimal `bun:"price,notnull,type:decimal(12,2)"`
	Ingredients     string          `bun:"ingredients,notnull,type:text"`
	Instructions    string          `bun:"instructions,notnull,type:text"`
	IsFavorite      bool            `bun:"is_favorite,notnull"`
	CreatedAt       time.Time       `bun:"created_at,notnull"`
}

func toCustomDrinkModel(d *entity.CustomDrink) *customDrinkModel {
	return &customDrinkModel{
		ID: d.ID, Name: d.Name, BaseProductID: d.BaseProductID, CreatedByUserID: d.CreatedByUserID,
		Price: d.Price, Ingredients: d.Ingredients, Instructions: d.Instructions, IsFavorite: d.IsFavorite,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (m *customDrinkModel) toEntity() *entity.CustomDrink {
	return &entity.CustomDrink{
		ID: m.ID, Name: m.Name, BaseProductID: m.BaseProductID, CreatedByUserID: m.CreatedByUserID,
		Price: m.Price, Ingredients: m.Ingredients, Instructions: m.Instructions, IsFavorite: m.IsFavorite,
		CreatedAt: m.CreatedAt,
	}
}

type reportModel struct {
	bun.BaseModel `bun:"table:reports,alias:rp"`

	ID         string          `bun:"id,pk,type:varchar(36)"`
	ReportType string          `bun:"report_type,notnull,type:varchar(32)"`
	ReportName string          `bun:"report_name,notnull,type:varchar(128)"`
	StartDate  time.Time       `bun:"start_date,notnull"`
	EndDate    time.Time       `bun:"end_date,notnull"`
	TotalSales decimal.Decimal `bun:"total_sales,notnull,type:decimal(12,2)"`
	TotalCost  decimal.Decimal `bun:"total_cost,notnull,type:decimal(12,2)"`
	Profit     decimal.Decimal `bun:"profit,notnull,type:decimal(12,2)"`
	ItemCount  int             `bun:"item_count,notnull"`
	UserID     string          `bun:"user_id,notnull,type:varchar(36)"`
	CreatedAt  time.Time       `bun:"created_at,notnull"`
}

func toReportModel(r *entity.SavedReport) *reportModel {
	return &reportModel{
		ID: r.ID, ReportType: r.ReportType, ReportName: r.ReportName, StartDate: r.StartDate.UTC(),
		EndDate: r.EndDate.UTC(), TotalSales: r.TotalSales, TotalCost: r.TotalCost, Profit: r.Profit,
		ItemCount: r.ItemCount, UserID: r.UserID, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (m *reportModel) toEntity() *entity.SavedReport {
	return &entity.SavedReport{
		ID: m.ID, ReportType: m.ReportType, ReportName: m.ReportName, StartDate: m.StartDate,
		EndDate: m.EndDate, TotalSales: m.TotalSales, TotalCost: m.TotalCost, Profit: m.Profit,
		ItemCount: m.ItemCount, UserID: m.UserID, CreatedAt: m.CreatedAt,
	}
}

type auditModel struct {
	bun.BaseModel `bun:"table:audit_log,alias:a"`

	ID        string    `bun:"id,pk,type:varchar(36)"`
	UserID    string    `bun:"user_id,nullzero,type:varchar(36)"`
	Action    string    `bun:"action,notnull,type:varchar(32)"`
	TableName string    `bun:"table_name,notnull,type:varchar(32)"`
	RecordID  string    `bun:"record_id,notnull,type:varchar(64)"`
	OldValue  string    `bun:"old_value,notnull,type:text"`
	NewValue  string    `bun:"new_value,notnull,type:text"`
	Timestamp time.Time `bun:"timestamp,notnull"`
}

func toAuditModel(e *entity.AuditEntry) *auditModel {
	return &auditModel{
		ID: e.ID, UserID: e.UserID, Action: e.Action, TableName: e.TableName, RecordID: e.RecordID,
		OldValue: e.OldValue, NewValue: e.NewValue, Timestamp: e.Timestamp.UTC(),
	}
}

func (m *auditModel) toEntity() *entity.AuditEntry {
	return &entity.AuditEntry{
		ID: m.ID, UserID: m.UserID, Action: m.Action, TableName: m.TableName, RecordID: m.RecordID,
		OldValue: m.OldValue, NewValue: m.NewValue, Timestamp: m.Timestamp,
	}
}

type settingModel struct {
	bun.BaseModel `bun:"table:settings,alias:st"`

	Key       string    `bun:"key,pk,type:varchar(64)"`
	Value     string    `bun:"value,notnull,type:text"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (m *settingModel) toEntity() *entity.Setting {
	return &entity.Setting{Key: m.Key, Value: m.Value, UpdatedAt: m.UpdatedAt}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
