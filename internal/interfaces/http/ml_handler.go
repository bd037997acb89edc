package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafecraft/internal/application/ml"
)

const maxForecastDays = 90

// MLHandler recomendaciones y predicciones.
type MLHandler struct {
	uc *ml.UseCase
}

// NewMLHandler construye el handler.
func NewMLHandler(uc *ml.UseCase) *MLHandler {
	return &MLHandler{uc: uc}
}

// Recommend godoc
// @Summary      Productos recomendados para la cesta actual
// @Description  Reglas de asociación con respaldo de co-ocurrencia. Requiere un modelo entrenado.
// @Tags         ml
// @Security     Bearer
// @Produce      json
// @Param        items  query  string  true   "Nombres de producto separados por coma"
// @Param        top_k  query  int     false  "Máximo de sugerencias"
// @Success      200  {object}  dto.RecommendationsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recommendations [get]
func (h *MLHandler) Recommend(c *fiber.Ctx) error {
	basket := strings.Split(c.Query("items"), ",")
	out, err := h.uc.Recommend(c.UserContext(), basket, c.QueryInt("top_k"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Train godoc
// @Summary      Reentrenar el recomendador
// @Tags         ml
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TrainResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ml/train [post]
func (h *MLHandler) Train(c *fiber.Ctx) error {
	out, err := h.uc.Train(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesForecast godoc
// @Summary      Predicción de ventas diarias
// @Tags         ml
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días a predecir (default 7, máx 90)"
// @Success      200  {object}  dto.SalesForecastResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/predictions/sales [get]
func (h *MLHandler) SalesForecast(c *fiber.Ctx) error {
	days := c.QueryInt("days")
	if days < 0 || days > maxForecastDays {
		return invalidParams(c)
	}
	out, err := h.uc.SalesForecast(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockForecast godoc
// @Summary      Días hasta agotar cada ingrediente y compra sugerida
// @Tags         ml
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockForecastResponse
// @Router       /api/predictions/stock [get]
func (h *MLHandler) StockForecast(c *fiber.Ctx) error {
	out, err := h.uc.StockForecast(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
