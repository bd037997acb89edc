// Package receiptxml genera el recibo de un pedido como documento XML y su digest SHA-256
// sobre la forma canónica (C14N 1.0) del documento.
package receiptxml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
)

// Namespace del documento de recibo.
const Namespace = "urn:cafecraft:receipt:1"

// Builder implementa ports.ReceiptXMLBuilder.
type Builder struct {
	shop receipt.Shop
}

// NewBuilder construye el generador con los datos del local.
func NewBuilder(shop receipt.Shop) *Builder {
	return &Builder{shop: shop}
}

// BuildReceipt devuelve el XML indentado y el digest (hex) de su forma canónica.
func (b *Builder) BuildReceipt(o *entity.Order, verificationCode string) ([]byte, string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Receipt")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("number", o.OrderNumber)

	shop := root.CreateElement("Shop")
	shop.CreateElement("Name").SetText(b.shop.Name)
	if b.shop.Address != "" {
		shop.CreateElement("Address").SetText(b.shop.Address)
	}

	root.CreateElement("IssueDate").SetText(o.CreatedAt.UTC().Format(receipt.TimeLayout))
	root.CreateElement("Status").SetText(o.Status)
	root.CreateElement("Cashier").SetText(o.CashierName)
	if o.CustomerName != "" {
		root.CreateElement("Customer").SetText(o.CustomerName)
	}

	lines := root.CreateElement("Lines")
	for i, it := range o.Items {
		l := lines.CreateElement("Line")
		l.CreateAttr("n", strconv.Itoa(i+1))
		l.CreateElement("ProductID").SetText(it.ProductID)
		l.CreateElement("Name").SetText(it.ProductName)
		l.CreateElement("Quantity").SetText(strconv.Itoa(it.Quantity))
		l.CreateElement("UnitPrice").SetText(amount(it.UnitPrice))
		l.CreateElement("Subtotal").SetText(amount(it.Subtotal))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Subtotal").SetText(amount(o.Subtotal))
	disc := totals.CreateElement("Discount")
	disc.CreateAttr("percent", o.DiscountPercent.StringFixed(2))
	disc.SetText(amount(o.DiscountAmount))
	totals.CreateElement("Total").SetText(amount(o.TotalAmount))

	pay := root.CreateElement("Payment")
	pay.CreateAttr("method", o.PaymentMethod)
	if o.PaymentMethod == entity.PaymentCash {
		pay.CreateElement("Tendered").SetText(amount(o.AmountTendered))
		pay.CreateElement("Change").SetText(amount(o.ChangeDue))
	}
	if o.PaymentReference != "" {
		pay.CreateElement("Reference").SetText(o.PaymentReference)
	}

	root.CreateElement("VerificationCode").SetText(verificationCode)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("receiptxml: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 (hex) de la forma canónica C14N del documento.
func Digest(data []byte) (string, error) {
	canon, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// Canonicalize aplica C14N 1.0 (sin comentarios).
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("receiptxml: canonicalizar: %w", err)
	}
	return out, nil
}

func amount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
