package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationDTO sugerencia de producto adicional.
type RecommendationDTO struct {
	Item       string  `json:"item"`
	Confidence float64 `json:"confidence"`
	Support    float64 `json:"support"`
}

// RecommendationsResponse sugerencias para una canasta.
type RecommendationsResponse struct {
	Basket          []string            `json:"basket"`
	Recommendations []RecommendationDTO `json:"recommendations"`
}

// TrainResponse resultado del entrenamiento.
type TrainResponse struct {
	TrainedAt        time.Time `json:"trained_at"`
	Baskets          int       `json:"baskets"`
	FrequentItemsets int       `json:"frequent_itemsets"`
	Rules            int       `json:"rules"`
	Pairs            int       `json:"pairs"`
}

// SalesForecastPoint predicción de un día.
type SalesForecastPoint struct {
	Day       string          `json:"day"`
	Predicted decimal.Decimal `json:"predicted"`
}

// SalesForecastResponse predicción de ventas diarias.
type SalesForecastResponse struct {
	HistoryDays int                  `json:"history_days"`
	DataPoints  int                  `json:"data_points"`
	Points      []SalesForecastPoint `json:"points"`
}

// StockDepletionDTO días estimados hasta agotar un ingrediente.
type StockDepletionDTO struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Current      decimal.Decimal `json:"current"`
	DailyUsage   decimal.Decimal `json:"daily_usage"`
	DaysLeft     int             `json:"days_left"`
}

// RestockDTO cantidad recomendada a comprar.
type RestockDTO struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Current      decimal.Decimal `json:"current"`
	DailyUsage   decimal.Decimal `json:"daily_usage"`
	Recommended  decimal.Decimal `json:"recommended"`
}

// StockForecastResponse predicción de consumo de inventario.
type StockForecastResponse struct {
	WindowDays int                 `json:"window_days"`
	Depletion  []StockDepletionDTO `json:"depletion"`
	Restock    []RestockDTO        `json:"restock"`
}
