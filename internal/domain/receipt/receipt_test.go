package receipt_test

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var issued = time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)

func TestVerificationCode_CadenaExacta(t *testing.T) {
	code, err := receipt.VerificationCode(receipt.VerificationParams{
		OrderNumber:    " ORD-20260501083000-AB12 ",
		IssuedAt:       issued,
		Subtotal:       d("13.5"),
		DiscountAmount: d("1.35"),
		Total:          d("12.15"),
		PaymentMethod:  entity.PaymentCash,
		ShopKey:        "clave",
	})
	require.NoError(t, err)

	sum := sha512.Sum384([]byte("ORD-20260501083000-AB12" + "2026-05-01T08:30:00" + "13.50" + "1.35" + "12.15" + "cash" + "clave"))
	assert.Equal(t, hex.EncodeToString(sum[:]), code)
	assert.Len(t, code, 96)
}

func TestVerificationCode_CambiaConElTotal(t *testing.T) {
	p := receipt.VerificationParams{OrderNumber: "ORD-1", IssuedAt: issued, Total: d("10"), PaymentMethod: "cash"}
	a, err := receipt.VerificationCode(p)
	require.NoError(t, err)
	p.Total = d("10.01")
	b, err := receipt.VerificationCode(p)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerificationCode_CamposObligatorios(t *testing.T) {
	_, err := receipt.VerificationCode(receipt.VerificationParams{IssuedAt: issued, PaymentMethod: "cash"})
	assert.Error(t, err)
	_, err = receipt.VerificationCode(receipt.VerificationParams{OrderNumber: "ORD-1", PaymentMethod: "cash"})
	assert.Error(t, err)
	_, err = receipt.VerificationCode(receipt.VerificationParams{OrderNumber: "ORD-1", IssuedAt: issued})
	assert.Error(t, err)
}

func TestShortCode(t *testing.T) {
	assert.Equal(t, "ABCDEF0123456789", receipt.ShortCode("abcdef0123456789ffff"))
	assert.Equal(t, "AB", receipt.ShortCode("ab"))
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		OrderNumber:     "ORD-20260501083000-AB12",
		CashierName:     "Employee One",
		CustomerName:    "Ana",
		Subtotal:        d("13.50"),
		DiscountPercent: d("10"),
		DiscountAmount:  d("1.35"),
		TotalAmount:     d("12.15"),
		AmountTendered:  d("20"),
		ChangeDue:       d("7.85"),
		PaymentMethod:   entity.PaymentCash,
		Status:          entity.OrderStatusCompleted,
		CreatedAt:       issued,
		Items: []entity.OrderItem{
			{ProductName: "Latte", Quantity: 2, UnitPrice: d("5"), Subtotal: d("10")},
			{ProductName: "Croissant de almendras con chocolate extra", Quantity: 1, UnitPrice: d("3.5"), Subtotal: d("3.5")},
		},
	}
}

func renderer(t *testing.T, lang string) *receipt.TextRenderer {
	t.Helper()
	mf, err := money.NewFormatter("en", "PHP", "₱")
	require.NoError(t, err)
	return receipt.NewTextRenderer(receipt.Shop{Name: "CaféCraft"}, i18n.New(lang), mf, time.UTC)
}

func TestRender_Estructura(t *testing.T) {
	out := renderer(t, "en").Render(sampleOrder(), strings.Repeat("a", 96), issued)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), receipt.Width, l)
	}
	assert.Equal(t, "CaféCraft", strings.TrimSpace(lines[0]))
	assert.Equal(t, "RECEIPT", strings.TrimSpace(lines[1]))
	assert.Equal(t, strings.Repeat("=", 50), lines[2])
	assert.Contains(t, out, "Order #: ORD-20260501083000-AB12")
	assert.Contains(t, out, "Date/Time: 2026-05-01 08:30:00")
	assert.Contains(t, out, "Cashier: Employee One")
	assert.Contains(t, out, "Customer: Ana")
	assert.Contains(t, out, "Payment: CASH")
	assert.Contains(t, out, "Item                            Qty       Price")
	assert.Contains(t, out, "Latte                             2      ₱10.00")
	assert.Contains(t, out, "Croissant de almendras con cho    1       ₱3.50")
	assert.Contains(t, out, "Discount (10%):")
	assert.Contains(t, out, "-₱1.35")
	assert.Contains(t, out, "TOTAL:")
	assert.Contains(t, out, "₱12.15")
	assert.Contains(t, out, "Change:")
	assert.Contains(t, out, "Thank you for your purchase!")
	assert.Contains(t, out, "Processed on 2026-05-01 08:30:00")
	assert.Contains(t, out, "AAAAAAAAAAAAAAAA")
}

func TestRender_SinDescuentoNoImprimeLinea(t *testing.T) {
	o := sampleOrder()
	o.DiscountAmount = decimal.Zero
	o.DiscountPercent = decimal.Zero
	out := renderer(t, "en").Render(o, "", issued)
	assert.NotContains(t, out, "Discount")
	assert.NotContains(t, out, "Verification")
}

func TestRender_PendienteMuestraReferencia(t *testing.T) {
	o := sampleOrder()
	o.PaymentMethod = entity.PaymentGCash
	o.PaymentReference = "GC-998"
	o.Status = entity.OrderStatusPending
	o.AmountTendered = decimal.Zero
	out := renderer(t, "en").Render(o, "", issued)
	assert.Contains(t, out, "Payment: GCASH")
	assert.Contains(t, out, "Reference: GC-998")
	assert.Contains(t, out, "Status: PENDING")
	assert.NotContains(t, out, "Change:")
}

func TestRender_Espanol(t *testing.T) {
	out := renderer(t, "es").Render(sampleOrder(), "", issued)
	assert.Contains(t, out, "RECIBO")
}
