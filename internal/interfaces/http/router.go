package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafecraft/internal/application/analytics"
	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/auth"
	"github.com/jhoicas/cafecraft/internal/application/inventory"
	"github.com/jhoicas/cafecraft/internal/application/ml"
	"github.com/jhoicas/cafecraft/internal/application/pos"
	"github.com/jhoicas/cafecraft/internal/application/usecase"
	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ModuleService *usecase.ModuleService
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	InventoryUC   *inventory.UseCase
	OrderUC       *pos.UseCase
	ReceiptUC     *pos.ReceiptUseCase
	ReportUC      *analytics.ReportUseCase
	DashboardUC   *analytics.DashboardUseCase
	MLUC          *ml.UseCase
	AuditUC       *audit.UseCase
	JWTSecret     string
	ServiceName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	module := func(name string) fiber.Handler { return RequireModule(name, deps.ModuleService) }
	menuAdmin := RequireRole(deps.ModuleService, entity.RoleOwner, entity.RoleAdmin, entity.RoleManager)

	// Usuarios. /me/password antes de /:id.
	userHandler := NewUserHandler(deps.UserUC)
	protected.Put("/users/me/password", userHandler.ChangeMyPassword)
	users := protected.Group("/users", module(access.ModuleUserManagement))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ResetPassword)
	users.Post("/:id/deactivate", userHandler.Deactivate)
	users.Post("/:id/reactivate", userHandler.Reactivate)
	users.Get("/:id/activity", userHandler.Activity)

	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", module(access.ModuleUserManagement), auditHandler.List)

	// Menú
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products", module(access.ModulePOS))
	products.Get("/", productHandler.List)
	products.Get("/categories", productHandler.Categories)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/recipe", productHandler.GetRecipe)
	products.Post("/", menuAdmin, productHandler.Create)
	products.Put("/:id", menuAdmin, productHandler.Update)
	products.Delete("/:id", menuAdmin, productHandler.Delete)
	products.Put("/:id/recipe", menuAdmin, productHandler.SetRecipe)

	drinks := protected.Group("/custom-drinks", module(access.ModulePOS))
	drinks.Post("/", productHandler.CreateCustomDrink)
	drinks.Get("/", productHandler.ListCustomDrinks)

	// POS
	orderHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC)
	orders := protected.Group("/orders", module(access.ModulePOS))
	orders.Post("/quote", orderHandler.Quote)
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/complete", orderHandler.Complete)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	mlHandler := NewMLHandler(deps.MLUC)
	protected.Get("/recommendations", module(access.ModulePOS), mlHandler.Recommend)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	ingredients := protected.Group("/ingredients", module(access.ModuleInventory))
	ingredients.Get("/", inventoryHandler.List)
	ingredients.Post("/", inventoryHandler.Create)
	ingredients.Get("/:id", inventoryHandler.GetByID)
	ingredients.Put("/:id", inventoryHandler.Update)
	ingredients.Delete("/:id", inventoryHandler.Delete)
	ingredients.Put("/:id/stock", inventoryHandler.SetStock)
	ingredients.Post("/:id/purchase", inventoryHandler.Purchase)
	ingredients.Post("/:id/waste", inventoryHandler.Waste)

	invGroup := protected.Group("/inventory", module(access.ModuleInventory))
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/value", inventoryHandler.Value)
	invGroup.Get("/transactions", inventoryHandler.Transactions)
	invGroup.Get("/replenishment", inventoryHandler.Replenishment)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", module(access.ModuleReports))
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/summary/pdf", reportHandler.SummaryPDF)
	reports.Get("/best-sellers", reportHandler.BestSellers)
	reports.Get("/payment-methods", reportHandler.PaymentMethods)
	reports.Get("/hourly", reportHandler.Hourly)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/categories", reportHandler.Categories)
	reports.Get("/transactions", reportHandler.Transactions)
	reports.Post("/saved", reportHandler.Save)
	reports.Get("/saved", reportHandler.ListSaved)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", module(access.ModuleReports), dashboardHandler.GetSummary)

	protected.Post("/ml/train", module(access.ModuleReports), mlHandler.Train)
	protected.Get("/predictions/sales", module(access.ModuleReports), mlHandler.SalesForecast)
	protected.Get("/predictions/stock", module(access.ModuleReports), mlHandler.StockForecast)
}
