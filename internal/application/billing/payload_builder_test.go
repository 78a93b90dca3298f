package billing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

func sampleForm() (entity.Issuer, entity.Recipient, entity.Header, []entity.LineItem) {
	issuer := entity.Issuer{
		LegalName:    "Optimizar SRL",
		TaxID:        "30-71234567-8",
		Address:      "Av. Corrientes 1234",
		VATCondition: afip.VATResponsableInscripto,
		FiscalKey:    "no-debe-viajar",
	}
	recipient := entity.Recipient{
		LegalName:     "Cliente SA",
		TaxID:         "20 12345678 9",
		Address:       "Calle Falsa 123",
		VATCondition:  afip.VATResponsableInscripto,
		SaleCondition: afip.SaleContado,
	}
	header := entity.Header{
		InvoiceType: afip.InvoiceTypeA,
		Concept:     afip.ConceptProduct,
		PeriodStart: time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local),
		PeriodEnd:   time.Date(2026, 10, 31, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2026, 11, 10, 0, 0, 0, 0, time.Local),
	}
	it := entity.NewLineItem()
	it.Description = "Servicio de consultoría"
	it.Quantity = decimal.NewFromInt(2)
	it.UnitPrice = decimal.NewFromInt(121)
	it.Discount = ""
	return issuer, recipient, header, []entity.LineItem{it}
}

func TestPayloadBuilder_Build_FacturaA(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "ARS", "facturador_api")
	issuer, recipient, header, items := sampleForm()
	now := time.Date(2026, 10, 15, 14, 3, 9, 0, time.Local)

	p, err := b.Build(issuer, recipient, header, items, now)
	require.NoError(t, err)

	assert.Equal(t, "30712345678", p.Emisor.CUIT)
	assert.Equal(t, "20123456789", p.Receptor.CUITDNI)
	assert.Empty(t, p.Emisor.ClaveFiscal, "sin delegación la clave fiscal no viaja")
	assert.Equal(t, "01/10/2026", p.DatosFacturacion.FechaInicio)
	assert.Equal(t, "31/10/2026", p.DatosFacturacion.FechaFin)
	assert.Equal(t, "10/11/2026", p.DatosFacturacion.FechaVencimiento)
	assert.Nil(t, p.Items[0].DescuentoBonificacion)

	assert.Equal(t, "ARS", p.Totales.Moneda)
	assert.Equal(t, "Factura A", p.Totales.TipoFactura)
	assert.Equal(t, json.Number("200.00"), p.Totales.TotalNeto)
	assert.Equal(t, json.Number("42.00"), p.Totales.TotalIVA21)
	assert.Equal(t, json.Number("242.00"), p.Totales.Total)
	require.Len(t, p.Totales.ItemsCalculados, 1)
	assert.Equal(t, json.Number("100.00"), p.Totales.ItemsCalculados[0].UnitNet)
	assert.Equal(t, json.Number("21.00"), p.Totales.ItemsCalculados[0].UnitIVA)
	assert.Equal(t, "Factura A/B: total = neto + IVA 21%. Factura C: sin desglose de IVA.", p.Totales.Nota)

	assert.Equal(t, "2026-10-15T14:03:09", p.Meta.CreatedAt)
	assert.Equal(t, "facturador_api", p.Meta.Source)
}

func TestPayloadBuilder_DescuentoCanonico(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "", "")
	issuer, recipient, header, items := sampleForm()
	items[0].Discount = " 10,50 "

	p, err := b.Build(issuer, recipient, header, items, time.Now())
	require.NoError(t, err)
	require.NotNil(t, p.Items[0].DescuentoBonificacion)
	assert.Equal(t, "10.5", *p.Items[0].DescuentoBonificacion)
	assert.Equal(t, json.Number("231.50"), p.Totales.Total)
}

func TestPayloadBuilder_DescuentoInvalido(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "", "")
	issuer, recipient, header, items := sampleForm()
	items[0].Discount = "diez"

	_, err := b.Build(issuer, recipient, header, items, time.Now())
	assert.Error(t, err)
}

func TestPayloadBuilder_ItemNoCalculableQuedaNull(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "", "")
	issuer, recipient, header, items := sampleForm()
	bad := entity.NewLineItem()
	bad.Quantity = decimal.NewFromInt(-1)
	items = append(items, bad)

	p, err := b.Build(issuer, recipient, header, items, time.Now())
	require.NoError(t, err)
	require.Len(t, p.Totales.ItemsCalculados, 2)
	assert.Nil(t, p.Totales.ItemsCalculados[1])
	assert.Equal(t, json.Number("242.00"), p.Totales.Total)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items_calculados":[{`)
	assert.Contains(t, string(raw), `},null]`)
}

func TestPayloadBuilder_FacturaCSinDesglose(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "", "")
	issuer, recipient, header, items := sampleForm()
	header.InvoiceType = afip.InvoiceTypeC

	p, err := b.Build(issuer, recipient, header, items, time.Now())
	require.NoError(t, err)
	assert.Equal(t, json.Number("242.00"), p.Totales.TotalNeto)
	assert.Equal(t, json.Number("0.00"), p.Totales.TotalIVA21)
	assert.Equal(t, json.Number("242.00"), p.Totales.Total)
}

func TestPayloadBuilder_ClaveFiscalConDelegacion(t *testing.T) {
	b := billing.NewPayloadBuilder(invoice.NewCalculator(invoice.DefaultVATRate), "", "")
	issuer, recipient, header, items := sampleForm()
	issuer.RequiresDelegation = true
	issuer.FiscalKey = "clave123"

	p, err := b.Build(issuer, recipient, header, items, time.Now())
	require.NoError(t, err)
	assert.True(t, p.Emisor.RequiereDelegacion)
	assert.Equal(t, "clave123", p.Emisor.ClaveFiscal)
}
