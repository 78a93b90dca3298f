package afip

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var arPrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatMoney formatea un importe con separador de miles "." y decimal "," (ej: 1.234,56).
func FormatMoney(d decimal.Decimal) string {
	return arPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
