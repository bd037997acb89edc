// Package receipt construye el recibo de un pedido y su código de verificación.
package receipt

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout formato de fecha usado en la cadena de verificación y en el XML.
const TimeLayout = "2006-01-02T15:04:05"

// ShortCodeLen caracteres del código impresos en el recibo de texto.
const ShortCodeLen = 16

// VerificationParams datos del pedido que entran en el código, en el orden de concatenación.
type VerificationParams struct {
	OrderNumber    string
	IssuedAt       time.Time
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	ShopKey        string
}

var spaces = regexp.MustCompile(`\s+`)

// VerificationCode SHA-384 (hex) de:
// OrderNumber + IssuedAt(UTC, 2006-01-02T15:04:05) + Subtotal + Discount + Total + PaymentMethod + ShopKey
// Montos con punto decimal y 2 decimales, sin separador de miles.
func VerificationCode(p VerificationParams) (string, error) {
	num := spaces.ReplaceAllString(strings.TrimSpace(p.OrderNumber), "")
	if num == "" {
		return "", fmt.Errorf("receipt: número de pedido obligatorio")
	}
	if p.IssuedAt.IsZero() {
		return "", fmt.Errorf("receipt: fecha de emisión obligatoria")
	}
	if p.PaymentMethod == "" {
		return "", fmt.Errorf("receipt: método de pago obligatorio")
	}

	cadena := num +
		p.IssuedAt.UTC().Format(TimeLayout) +
		formatAmount(p.Subtotal) +
		formatAmount(p.DiscountAmount) +
		formatAmount(p.Total) +
		p.PaymentMethod +
		p.ShopKey

	hash := sha512.Sum384([]byte(cadena))
	return hex.EncodeToString(hash[:]), nil
}

// ShortCode primeros ShortCodeLen caracteres del código, en mayúsculas.
func ShortCode(code string) string {
	if len(code) > ShortCodeLen {
		code = code[:ShortCodeLen]
	}
	return strings.ToUpper(code)
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
