// Package money formatea importes según el idioma configurado (separadores de miles y decimales).
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea importes con símbolo de moneda y agrupación por idioma.
type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// NewFormatter construye el formateador. isoCode es un código ISO 4217 (PHP, USD, COP...).
// Si symbol está vacío se usa el código ISO.
func NewFormatter(locale, isoCode, symbol string) (*Formatter, error) {
	unit, err := currency.ParseISO(isoCode)
	if err != nil {
		return nil, fmt.Errorf("money: moneda inválida %q: %w", isoCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if symbol == "" {
		symbol = unit.String()
	}
	return &Formatter{unit: unit, symbol: symbol, printer: message.NewPrinter(tag)}, nil
}

// Code devuelve el código ISO de la moneda.
func (f *Formatter) Code() string { return f.unit.String() }

// Symbol devuelve el símbolo usado al formatear.
func (f *Formatter) Symbol() string { return f.symbol }

// Format devuelve el importe con símbolo y dos decimales, p. ej. "₱1,234.50" o "-₱5.00".
func (f *Formatter) Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	v, _ := d.Round(2).Float64()
	return sign + f.symbol + f.printer.Sprintf("%.2f", v)
}

// Plain devuelve el importe sin símbolo ni separador de miles (formato de intercambio: 1234.50).
func Plain(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
