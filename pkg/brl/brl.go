// Package brl formatea valores monetarios en reais para documentos impresos.
package brl

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format devuelve el valor como "R$ 1.234,50".
func Format(v decimal.Decimal) string {
	f := v.Round(2).InexactFloat64()
	if f < 0 {
		return "-R$ " + printer.Sprint(number.Decimal(-f, number.Scale(2)))
	}
	return "R$ " + printer.Sprint(number.Decimal(f, number.Scale(2)))
}
