package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafecraft/internal/application/analytics"
	"github.com/jhoicas/cafecraft/internal/application/dto"
)

// ReportHandler reportes de ventas (módulo reports).
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func dateRange(c *fiber.Ctx) (dto.DateRange, error) {
	var r dto.DateRange
	err := c.QueryParser(&r)
	return r, err
}

// Summary godoc
// @Summary      Resumen de ventas del período
// @Description  Solo pedidos completados. Sin fechas: hoy (zona APP_TIMEZONE).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Summary(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BestSellers godoc
// @Summary      Productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo (default 10)"
// @Success      200  {array}   dto.BestSellerDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/best-sellers [get]
func (h *ReportHandler) BestSellers(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.BestSellers(c.UserContext(), r, c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentMethods godoc
// @Summary      Ventas por método de pago
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.PaymentMethodDTO
// @Router       /api/reports/payment-methods [get]
func (h *ReportHandler) PaymentMethods(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.PaymentMethods(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Hourly godoc
// @Summary      Ventas por hora del día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.HourlySalesDTO
// @Router       /api/reports/hourly [get]
func (h *ReportHandler) Hourly(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Hourly(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Daily godoc
// @Summary      Ventas por día (días sin ventas en cero)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.DailySalesDTO
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Daily(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Ventas de los últimos meses
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "Meses hacia atrás (default 6, máx 36)"
// @Success      200  {array}   dto.MonthlySalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	out, err := h.uc.Monthly(c.UserContext(), c.QueryInt("months"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Desempeño por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.CategoryPerformanceDTO
// @Router       /api/reports/categories [get]
func (h *ReportHandler) Categories(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Categories(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Pedidos completados del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo (default 100)"
// @Success      200  {array}  dto.TransactionRowDTO
// @Router       /api/reports/transactions [get]
func (h *ReportHandler) Transactions(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Transactions(c.UserContext(), r, c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen de ventas en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        start  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary/pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.ExportPDF(c.UserContext(), r)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales-summary.pdf"`)
	return c.Send(out)
}

// Save godoc
// @Summary      Guardar el resumen del período
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveReportRequest  true  "Rango y nombre opcional"
// @Success      201   {object}  dto.SavedReportDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/saved [post]
func (h *ReportHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Save(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSaved godoc
// @Summary      Reportes guardados
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo"
// @Success      200  {array}  dto.SavedReportDTO
// @Router       /api/reports/saved [get]
func (h *ReportHandler) ListSaved(c *fiber.Ctx) error {
	out, err := h.uc.ListSaved(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
