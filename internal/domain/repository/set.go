package repository

// Set agrupa los repositorios atados a una misma conexión o transacción.
type Set struct {
	Users        UserRepository
	Products     ProductRepository
	Recipes      RecipeRepository
	CustomDrinks CustomDrinkRepository
	Ingredients  IngredientRepository
	Stock        StockRepository
	Transactions TransactionRepository
	Orders       OrderRepository
	Audit        AuditRepository
	Settings     SettingRepository
	Reports      ReportRepository
}
