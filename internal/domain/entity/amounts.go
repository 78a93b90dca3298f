package entity

import "github.com/shopspring/decimal"

// LineAmounts importes calculados de un ítem. Para Factura C neto = bruto e IVA = 0.
type LineAmounts struct {
	UnitNet       decimal.Decimal
	UnitVAT       decimal.Decimal
	UnitGross     decimal.Decimal
	SubtotalNet   decimal.Decimal
	SubtotalVAT   decimal.Decimal
	SubtotalGross decimal.Decimal
}

// Totals totales de la factura; siempre se derivan de los ítems.
type Totals struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}
