package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

var tolerance = decimal.RequireFromString("0.0000001")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(qty, price string, mode afip.PriceMode, discount string) entity.LineItem {
	it := entity.NewLineItem()
	it.Description = "Servicio de consultoría"
	it.Quantity = dec(qty)
	it.UnitPrice = dec(price)
	it.PriceMode = mode
	it.Discount = discount
	return it
}

func assertClose(t *testing.T, want, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, want.Sub(got).Abs().LessThan(tolerance), "%s: esperado %s, obtenido %s", msg, want, got)
}

func TestComputeLineAmounts_FacturaA_PrecioConIVA(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	am, err := calc.ComputeLineAmounts(item("2", "121", afip.PriceIncludesVAT, "0"), afip.InvoiceTypeA)
	require.NoError(t, err)

	assertClose(t, dec("100"), am.UnitNet, "unit net")
	assertClose(t, dec("21"), am.UnitVAT, "unit iva")
	assert.True(t, am.UnitGross.Equal(dec("121")))
	assert.True(t, am.SubtotalGross.Equal(dec("242")))
	assertClose(t, dec("200"), am.SubtotalNet, "subtotal net")
	assertClose(t, dec("42"), am.SubtotalVAT, "subtotal iva")
}

func TestComputeLineAmounts_FacturaB_PrecioSinIVA(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	am, err := calc.ComputeLineAmounts(item("3", "100", afip.PriceExcludesVAT, ""), afip.InvoiceTypeB)
	require.NoError(t, err)

	assert.True(t, am.UnitNet.Equal(dec("100")))
	assert.True(t, am.UnitGross.Equal(dec("121")))
	assert.True(t, am.UnitVAT.Equal(dec("21")))
	assert.True(t, am.SubtotalGross.Equal(dec("363")))
	assertClose(t, dec("300"), am.SubtotalNet, "subtotal net")
}

func TestComputeLineAmounts_NetoPorFactorIgualBruto(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)
	factor := dec("1.21")

	for _, price := range []string{"0.01", "1", "99.99", "121", "1234.57", "1000000"} {
		for _, typ := range []afip.InvoiceType{afip.InvoiceTypeA, afip.InvoiceTypeB} {
			am, err := calc.ComputeLineAmounts(item("1", price, afip.PriceIncludesVAT, ""), typ)
			require.NoError(t, err)
			assertClose(t, am.UnitGross, am.UnitNet.Mul(factor), "net × 1.21 precio "+price)

			// Ida y vuelta: el neto calculado, cargado como precio sin IVA, devuelve el bruto original.
			back, err := calc.ComputeLineAmounts(item("1", am.UnitNet.String(), afip.PriceExcludesVAT, ""), typ)
			require.NoError(t, err)
			assertClose(t, dec(price), back.UnitGross, "ida y vuelta precio "+price)
		}
	}
}

func TestComputeLineAmounts_DescuentoAntesDelDesglose(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	am, err := calc.ComputeLineAmounts(item("2", "121", afip.PriceIncludesVAT, "0,5"), afip.InvoiceTypeA)
	require.NoError(t, err)

	assert.True(t, am.SubtotalGross.Equal(dec("241.5")))
	assertClose(t, dec("241.5").Div(dec("1.21")), am.SubtotalNet, "neto del subtotal con descuento")
	assert.True(t, am.SubtotalNet.Add(am.SubtotalVAT).Equal(am.SubtotalGross))
}

func TestComputeLineAmounts_FacturaC_SinDesglose(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	am, err := calc.ComputeLineAmounts(item("3", "50", afip.PriceExcludesVAT, "10"), afip.InvoiceTypeC)
	require.NoError(t, err)

	assert.True(t, am.SubtotalGross.Equal(dec("140")), "3 × 50 − 10")
	assert.True(t, am.SubtotalVAT.IsZero())
	assert.True(t, am.UnitVAT.IsZero())
	assert.True(t, am.SubtotalNet.Equal(am.SubtotalGross))
	assert.True(t, am.UnitGross.Equal(dec("50")), "en Factura C el modo de precio se ignora")
}

func TestComputeLineAmounts_TipoSinDefinirSeTrataComoC(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	am, err := calc.ComputeLineAmounts(item("1", "121", afip.PriceIncludesVAT, ""), "")
	require.NoError(t, err)
	assert.True(t, am.SubtotalVAT.IsZero())
}

func TestComputeLineAmounts_Errores(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)

	cases := []struct {
		name string
		it   entity.LineItem
		want error
	}{
		{"cantidad negativa", item("-1", "10", afip.PriceIncludesVAT, ""), invoice.ErrNegativeQuantity},
		{"precio negativo", item("1", "-10", afip.PriceIncludesVAT, ""), invoice.ErrNegativePrice},
		{"descuento negativo", item("1", "10", afip.PriceIncludesVAT, "-1"), invoice.ErrNegativeDiscount},
		{"descuento mayor al subtotal", item("1", "10", afip.PriceIncludesVAT, "10,01"), invoice.ErrDiscountTooLarge},
		{"descuento no numérico", item("1", "10", afip.PriceIncludesVAT, "diez"), invoice.ErrNotComputable},
		{"descuento con exponente enorme", item("1", "10", afip.PriceIncludesVAT, "1e-20000000"), invoice.ErrNotComputable},
	}
	for _, tc := range cases {
		for _, typ := range []afip.InvoiceType{afip.InvoiceTypeA, afip.InvoiceTypeC} {
			t.Run(tc.name+" "+string(typ), func(t *testing.T) {
				am, err := calc.ComputeLineAmounts(tc.it, typ)
				assert.Nil(t, am)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	}
}

func TestComputeLineAmounts_AlicuotaConfigurable(t *testing.T) {
	calc := invoice.NewCalculator(dec("0.105"))

	am, err := calc.ComputeLineAmounts(item("1", "100", afip.PriceExcludesVAT, ""), afip.InvoiceTypeA)
	require.NoError(t, err)
	assert.True(t, am.UnitGross.Equal(dec("110.5")))
	assert.True(t, calc.VATRate().Equal(dec("0.105")))
}

func TestNewCalculator_AlicuotaNegativaUsaDefault(t *testing.T) {
	calc := invoice.NewCalculator(dec("-0.1"))
	assert.True(t, calc.VATRate().Equal(invoice.DefaultVATRate))
}

func TestComputeTotals_SumaSoloItemsValidos(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)
	items := []entity.LineItem{
		item("2", "121", afip.PriceIncludesVAT, ""),
		item("-1", "50", afip.PriceIncludesVAT, ""),
		item("1", "100", afip.PriceExcludesVAT, "1,5"),
		item("1", "10", afip.PriceIncludesVAT, "abc"),
	}

	perItem, totals, errs := calc.ComputeTotals(items, afip.InvoiceTypeA)

	require.Len(t, perItem, 4)
	assert.Nil(t, perItem[1])
	assert.Nil(t, perItem[3])
	require.Len(t, errs, 2)
	assert.Equal(t, "Item 2: cantidad inválida", errs[0])
	assert.Contains(t, errs[1], "Item 4: ")

	sumGross := perItem[0].SubtotalGross.Add(perItem[2].SubtotalGross)
	assert.True(t, totals.Gross.Equal(sumGross))
	assert.True(t, totals.Gross.Equal(dec("361.5")))
	assertClose(t, totals.Gross, totals.Net.Add(totals.VAT), "neto + iva")
}

func TestComputeTotals_FacturaC(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)
	items := []entity.LineItem{
		item("3", "50", afip.PriceIncludesVAT, "10"),
		item("1", "0.5", afip.PriceIncludesVAT, ""),
	}

	_, totals, errs := calc.ComputeTotals(items, afip.InvoiceTypeC)
	assert.Empty(t, errs)
	assert.True(t, totals.Gross.Equal(dec("140.5")))
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.Net.Equal(totals.Gross))
}

func TestComputeTotals_SinItems(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultVATRate)
	perItem, totals, errs := calc.ComputeTotals(nil, afip.InvoiceTypeA)
	assert.Empty(t, perItem)
	assert.Empty(t, errs)
	assert.True(t, totals.Gross.IsZero())
}
