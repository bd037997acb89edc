// Package pdf genera con Maroto v2 el recibo de un pedido y el resumen de ventas.
//
// Layout del recibo (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del local + dirección │ N° pedido + fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Cajero / Cliente / Pago                                     │
//	│  TABLA: Producto | Cant | Precio | Subtotal                  │
//	│  TOTALES: Subtotal / Descuento / TOTAL / Efectivo / Cambio   │
//	│  FOOTER: QR + código de verificación + mensaje del local    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReceiptPDFGenerator y ports.ReportPDFGenerator.
type MarotoPDFGenerator struct {
	shop     receipt.Shop
	tr       *i18n.Translator
	money    *money.Formatter
	location *time.Location
}

// NewMarotoPDFGenerator construye el generador. loc define la zona horaria de las fechas impresas.
func NewMarotoPDFGenerator(shop receipt.Shop, tr *i18n.Translator, mf *money.Formatter, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &MarotoPDFGenerator{shop: shop, tr: tr, money: mf, location: loc}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.shop.Name, true).
		Build()
	return maroto.New(cfg)
}

// GenerateReceipt genera el recibo del pedido y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceipt(o *entity.Order, verificationCode string) ([]byte, error) {
	m := g.newDocument(g.tr.T("receipt.title") + " " + o.OrderNumber)

	m.AddRows(g.receiptHeaderRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.orderInfoRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		headerCell{g.tr.T("receipt.item"), 6, align.Left},
		headerCell{g.tr.T("receipt.qty"), 1, align.Center},
		headerCell{g.tr.T("receipt.price"), 2, align.Right},
		headerCell{g.tr.T("receipt.subtotal"), 3, align.Right},
	))
	for _, it := range o.Items {
		m.AddRows(row.New(7).Add(
			col.New(6).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money.Format(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money.Format(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.receiptTotalsRow(o))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range g.receiptFooterRows(verificationCode) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateSalesReport genera el resumen de ventas del período.
func (g *MarotoPDFGenerator) GenerateSalesReport(rep *dto.SalesReportDTO) ([]byte, error) {
	m := g.newDocument(g.tr.T("report.sales_title"))
	s := rep.Summary

	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(rep.ShopName, g.shop.Name), props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(g.tr.T("report.sales_title"), props.Text{Size: 10, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(g.tr.T("report.period", map[string]any{
				"Start": s.Period.From.In(g.location).Format("2006-01-02"),
				"End":   s.Period.To.In(g.location).AddDate(0, 0, -1).Format("2006-01-02"),
			}), props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New(rep.GeneratedAt.In(g.location).Format("2006-01-02 15:04"), props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	kv := [][2]string{
		{g.tr.T("report.orders"), fmt.Sprintf("%d", s.OrderCount)},
		{g.tr.T("report.sales"), g.money.Format(s.TotalSales)},
		{g.tr.T("report.cost"), g.money.Format(s.TotalCost)},
		{g.tr.T("report.profit"), g.money.Format(s.GrossProfit)},
		{g.tr.T("report.margin"), s.MarginPercent.StringFixed(2) + "%"},
		{g.tr.T("report.aov"), g.money.Format(s.AverageOrderValue)},
	}
	for _, p := range kv {
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New(p[0], props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(6).Add(text.New(p[1], props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}

	if len(rep.BestSellers) > 0 {
		m.AddRows(sectionTitle(g.tr.T("report.best_sellers")))
		m.AddRows(tableHeaderRow(
			headerCell{g.tr.T("receipt.item"), 5, align.Left},
			headerCell{g.tr.T("report.category"), 3, align.Left},
			headerCell{g.tr.T("receipt.qty"), 1, align.Center},
			headerCell{g.tr.T("report.revenue"), 3, align.Right},
		))
		for _, b := range rep.BestSellers {
			m.AddRows(row.New(6).Add(
				col.New(5).Add(text.New(b.Name, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(3).Add(text.New(b.Category, props.Text{Size: 8, Top: 1})),
				col.New(1).Add(text.New(fmt.Sprintf("%d", b.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(3).Add(text.New(g.money.Format(b.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			))
		}
	}

	if len(rep.Payments) > 0 {
		m.AddRows(sectionTitle(g.tr.T("receipt.payment")))
		for _, p := range rep.Payments {
			m.AddRows(row.New(6).Add(
				col.New(6).Add(text.New(p.Method, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(fmt.Sprintf("%d", p.Count), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(4).Add(text.New(g.money.Format(p.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			))
		}
	}

	if len(rep.Categories) > 0 {
		m.AddRows(sectionTitle(g.tr.T("report.category")))
		for _, c := range rep.Categories {
			m.AddRows(row.New(6).Add(
				col.New(4).Add(text.New(c.Category, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(fmt.Sprintf("%d", c.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(3).Add(text.New(g.money.Format(c.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1})),
				col.New(3).Add(text.New(g.money.Format(c.Profit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) receiptHeaderRow(o *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.shop.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(g.shop.Address, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(g.tr.T("receipt.title"), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7}),
			text.New(o.CreatedAt.In(g.location).Format("2006-01-02 15:04"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func (g *MarotoPDFGenerator) orderInfoRow(o *entity.Order) core.Row {
	payment := o.PaymentMethod
	if o.PaymentReference != "" {
		payment += " (" + o.PaymentReference + ")"
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New(g.tr.T("receipt.cashier")+": "+o.CashierName, props.Text{Size: 8, Top: 1}),
			text.New(g.tr.T("receipt.customer")+": "+nonEmpty(o.CustomerName, "-"), props.Text{Size: 8, Top: 6}),
		),
		col.New(6).Add(
			text.New(g.tr.T("receipt.payment")+": "+payment, props.Text{Size: 8, Top: 1, Align: align.Right}),
			text.New(g.tr.T("receipt.status")+": "+o.Status, props.Text{Size: 8, Top: 6, Align: align.Right}),
		),
	)
}

func (g *MarotoPDFGenerator) receiptTotalsRow(o *entity.Order) core.Row {
	labels := []string{g.tr.T("receipt.subtotal")}
	values := []decimal.Decimal{o.Subtotal}
	if o.DiscountAmount.IsPositive() {
		labels = append(labels, fmt.Sprintf("%s (%s%%)", g.tr.T("receipt.discount"), o.DiscountPercent.StringFixed(0)))
		values = append(values, o.DiscountAmount.Neg())
	}
	labels = append(labels, g.tr.T("receipt.total"))
	values = append(values, o.TotalAmount)
	if o.PaymentMethod == entity.PaymentCash {
		labels = append(labels, g.tr.T("receipt.tendered"), g.tr.T("receipt.change"))
		values = append(values, o.AmountTendered, o.ChangeDue)
	}

	left := col.New(3)
	right := col.New(3)
	for i := range labels {
		top := float64(i * 5)
		style := props.Text{Size: 9, Align: align.Right, Top: top, Right: 2}
		if labels[i] == g.tr.T("receipt.total") {
			style.Style = fontstyle.Bold
			style.Color = colorPrimary
		}
		left.Add(text.New(labels[i]+":", style))
		style.Right = 1
		right.Add(text.New(g.money.Format(values[i]), style))
	}
	return row.New(float64(len(labels)*5+2)).Add(col.New(6), left, right)
}

func (g *MarotoPDFGenerator) receiptFooterRows(verificationCode string) []core.Row {
	var rows []core.Row
	if verificationCode != "" {
		rows = append(rows, row.New(40).Add(
			col.New(4).Add(code.NewQr(verificationCode, props.Rect{Percent: 95, Center: true})),
			col.New(8).Add(
				text.New(g.tr.T("receipt.verification"), props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3}),
				text.New(receipt.ShortCode(verificationCode), props.Text{Size: 10, Top: 10, Left: 3, Color: colorPrimary}),
			),
		))
		for _, chunk := range splitEvery(verificationCode, 48) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	}
	rows = append(rows, row.New(10).Add(col.New(12).Add(
		text.New(nonEmpty(g.shop.Footer, g.tr.T("receipt.thanks")), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
		}),
	)))
	return rows
}

type headerCell struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla con texto blanco sobre fondo primario.
func tableHeaderRow(cells ...headerCell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func sectionTitle(s string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
