// Package invoice contiene los servicios de dominio del comprobante: cálculo de importes
// (neto / IVA / total) y validación del formulario antes del envío.
package invoice

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

// DefaultVATRate alícuota general de IVA (21%).
var DefaultVATRate = decimal.RequireFromString("0.21")

// Errores de cálculo por ítem. Se informan por línea sin cortar el resto del cálculo.
var (
	ErrNegativeQuantity = errors.New("cantidad inválida")
	ErrNegativePrice    = errors.New("precio inválido")
	ErrNegativeDiscount = errors.New("descuento inválido")
	ErrDiscountTooLarge = errors.New("el descuento supera el subtotal")
	ErrNotComputable    = errors.New("no se pudo calcular (revisá cantidad / precio / descuento)")
)

// Calculator calcula importes por ítem y totales con una alícuota de IVA fija.
type Calculator struct {
	vatRate decimal.Decimal
}

// NewCalculator construye el calculador. Una alícuota negativa se reemplaza por DefaultVATRate.
func NewCalculator(vatRate decimal.Decimal) *Calculator {
	if vatRate.IsNegative() {
		vatRate = DefaultVATRate
	}
	return &Calculator{vatRate: vatRate}
}

// VATRate devuelve la alícuota configurada.
func (c *Calculator) VATRate() decimal.Decimal { return c.vatRate }

// ComputeLineAmounts calcula los importes de un ítem.
//
// Factura A/B: con precio_modo=sin_iva el precio es neto y se le suma IVA; con con_iva el precio
// es final. El descuento es un MONTO que se resta de cantidad × precio final, y sobre ese subtotal
// se separa neto e IVA. Factura C (o tipo sin definir): el precio es final y no hay desglose.
// Un descuento mayor que cantidad × precio final no deja un subtotal negativo: devuelve
// ErrDiscountTooLarge.
func (c *Calculator) ComputeLineAmounts(item entity.LineItem, invoiceType afip.InvoiceType) (*entity.LineAmounts, error) {
	if item.Quantity.IsNegative() {
		return nil, ErrNegativeQuantity
	}
	if item.UnitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	discount, _, err := afip.ParseOptionalDecimal(item.Discount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotComputable, err)
	}
	if discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	if !invoiceType.ItemizesVAT() {
		gross := item.Quantity.Mul(item.UnitPrice)
		if discount.GreaterThan(gross) {
			return nil, ErrDiscountTooLarge
		}
		subtotalGross := gross.Sub(discount)
		return &entity.LineAmounts{
			UnitNet:       item.UnitPrice,
			UnitVAT:       decimal.Zero,
			UnitGross:     item.UnitPrice,
			SubtotalNet:   subtotalGross,
			SubtotalVAT:   decimal.Zero,
			SubtotalGross: subtotalGross,
		}, nil
	}

	factor := decimal.NewFromInt(1).Add(c.vatRate)
	var unitNet, unitGross decimal.Decimal
	if item.PriceMode == afip.PriceExcludesVAT {
		unitNet = item.UnitPrice
		unitGross = unitNet.Mul(factor)
	} else {
		unitGross = item.UnitPrice
		unitNet = unitGross.Div(factor)
	}

	gross := item.Quantity.Mul(unitGross)
	if discount.GreaterThan(gross) {
		return nil, ErrDiscountTooLarge
	}
	subtotalGross := gross.Sub(discount)
	subtotalNet := subtotalGross.Div(factor)

	return &entity.LineAmounts{
		UnitNet:       unitNet,
		UnitVAT:       unitGross.Sub(unitNet),
		UnitGross:     unitGross,
		SubtotalNet:   subtotalNet,
		SubtotalVAT:   subtotalGross.Sub(subtotalNet),
		SubtotalGross: subtotalGross,
	}, nil
}

// ComputeTotals suma los subtotales de cada ítem. Los ítems con error aportan cero y su
// mensaje se devuelve como "Item N: ..."; el slice de importes conserva nil en esa posición.
func (c *Calculator) ComputeTotals(items []entity.LineItem, invoiceType afip.InvoiceType) ([]*entity.LineAmounts, entity.Totals, []string) {
	perItem := make([]*entity.LineAmounts, len(items))
	var totals entity.Totals
	var calcErrors []string

	for i, it := range items {
		am, err := c.ComputeLineAmounts(it, invoiceType)
		if err != nil {
			calcErrors = append(calcErrors, fmt.Sprintf("Item %d: %s", i+1, err.Error()))
			continue
		}
		perItem[i] = am
		totals.Net = totals.Net.Add(am.SubtotalNet)
		totals.VAT = totals.VAT.Add(am.SubtotalVAT)
		totals.Gross = totals.Gross.Add(am.SubtotalGross)
	}
	return perItem, totals, calcErrors
}
