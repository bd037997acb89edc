package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/money"
)

// Width ancho del recibo en columnas.
const Width = 50

const (
	nameCol  = 30
	qtyCol   = 5
	priceCol = 12
	labelCol = 35
)

// Shop datos del comercio impresos en la cabecera.
type Shop struct {
	Name    string
	Address string
	Footer  string
}

// TextRenderer genera el recibo de texto plano.
type TextRenderer struct {
	shop     Shop
	tr       *i18n.Translator
	money    *money.Formatter
	location *time.Location
}

// NewTextRenderer crea el renderer. loc define la zona horaria de las fechas impresas.
func NewTextRenderer(shop Shop, tr *i18n.Translator, mf *money.Formatter, loc *time.Location) *TextRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &TextRenderer{shop: shop, tr: tr, money: mf, location: loc}
}

// Render devuelve el recibo. code es el código de verificación (vacío para omitirlo).
func (r *TextRenderer) Render(o *entity.Order, code string, printedAt time.Time) string {
	var b strings.Builder
	sep := strings.Repeat("=", Width)
	dash := strings.Repeat("-", Width)

	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(center(r.shop.Name))
	if r.shop.Address != "" {
		line(center(r.shop.Address))
	}
	line(center(r.tr.T("receipt.title")))
	line(sep)
	line(fmt.Sprintf("%s: %s", r.tr.T("receipt.order"), o.OrderNumber))
	line(fmt.Sprintf("%s: %s", r.tr.T("receipt.datetime"), o.CreatedAt.In(r.location).Format("2006-01-02 15:04:05")))
	line(fmt.Sprintf("%s: %s", r.tr.T("receipt.cashier"), o.CashierName))
	if o.CustomerName != "" {
		line(fmt.Sprintf("%s: %s", r.tr.T("receipt.customer"), o.CustomerName))
	}
	line(fmt.Sprintf("%s: %s", r.tr.T("receipt.payment"), paymentLabel(o.PaymentMethod)))
	if o.PaymentReference != "" {
		line(fmt.Sprintf("%s: %s", r.tr.T("receipt.reference"), o.PaymentReference))
	}
	if o.Status != entity.OrderStatusCompleted {
		line(fmt.Sprintf("%s: %s", r.tr.T("receipt.status"), strings.ToUpper(o.Status)))
	}
	line(dash)
	line(fmt.Sprintf("%-*s%*s%*s", nameCol, r.tr.T("receipt.item"), qtyCol, r.tr.T("receipt.qty"), priceCol, r.tr.T("receipt.price")))
	line(dash)
	for _, it := range o.Items {
		line(fmt.Sprintf("%-*s%*d%*s", nameCol, truncate(it.ProductName, nameCol), qtyCol, it.Quantity, priceCol, r.money.Format(it.Subtotal)))
	}
	line(dash)
	line(r.amountLine(r.tr.T("receipt.subtotal")+":", r.money.Format(o.Subtotal)))
	if o.DiscountAmount.IsPositive() {
		label := fmt.Sprintf("%s (%s%%):", r.tr.T("receipt.discount"), o.DiscountPercent.String())
		line(r.amountLine(label, "-"+r.money.Format(o.DiscountAmount)))
	}
	line(r.amountLine(r.tr.T("receipt.total")+":", r.money.Format(o.TotalAmount)))
	if o.PaymentMethod == entity.PaymentCash && o.AmountTendered.IsPositive() {
		line(r.amountLine(r.tr.T("receipt.tendered")+":", r.money.Format(o.AmountTendered)))
		line(r.amountLine(r.tr.T("receipt.change")+":", r.money.Format(o.ChangeDue)))
	}
	line(sep)
	line(center(r.tr.T("receipt.thanks")))
	if r.shop.Footer != "" {
		line(center(r.shop.Footer))
	}
	line(center(r.tr.T("receipt.processed", map[string]any{"Date": printedAt.In(r.location).Format("2006-01-02 15:04:05")})))
	if code != "" {
		line(center(fmt.Sprintf("%s: %s", r.tr.T("receipt.verification"), ShortCode(code))))
	}
	return b.String()
}

func (r *TextRenderer) amountLine(label, value string) string {
	return fmt.Sprintf("%-*s%*s", labelCol, label, Width-labelCol, value)
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= Width {
		return s
	}
	left := (Width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", Width-n-left)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func paymentLabel(m string) string {
	switch m {
	case entity.PaymentCash:
		return "CASH"
	case entity.PaymentGCash:
		return "GCASH"
	case entity.PaymentBankTransfer:
		return "BANK TRANSFER"
	}
	return strings.ToUpper(m)
}
