package billing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/pkg/afip"
	"github.com/optimizar-ia/facturador/pkg/jsonsafe"
)

// PayloadBuilder arma el documento normalizado que viaja al webhook y al archivo local.
type PayloadBuilder struct {
	calc     *invoice.Calculator
	currency string
	source   string
}

// NewPayloadBuilder construye el builder. currency y source vacíos toman "ARS" y "facturador_api".
func NewPayloadBuilder(calc *invoice.Calculator, currency, source string) *PayloadBuilder {
	if currency == "" {
		currency = "ARS"
	}
	if source == "" {
		source = "facturador_api"
	}
	return &PayloadBuilder{calc: calc, currency: currency, source: source}
}

// Build normaliza emisor, receptor, fechas e ítems y agrega la sección de totales.
// Los CUIT/DNI quedan solo con dígitos y cada descuento como decimal canónico o nil.
func (b *PayloadBuilder) Build(issuer entity.Issuer, recipient entity.Recipient, header entity.Header, items []entity.LineItem, now time.Time) (*dto.InvoicePayload, error) {
	payloadItems := make([]dto.ItemPayload, 0, len(items))
	for i, it := range items {
		discount, err := canonicalDiscount(it.Discount)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		payloadItems = append(payloadItems, dto.ItemPayload{
			UID:                   it.UID,
			Codigo:                it.Code,
			Descripcion:           it.Description,
			Cantidad:              json.Number(it.Quantity.String()),
			UnidadMedida:          it.Unit,
			PrecioModo:            string(it.PriceMode),
			PrecioUnitario:        json.Number(it.UnitPrice.String()),
			DescuentoBonificacion: discount,
		})
	}

	perItem, totals, _ := b.calc.ComputeTotals(items, header.InvoiceType)
	calculated := make([]*dto.LineAmountsPayload, len(perItem))
	for i, am := range perItem {
		calculated[i] = toLineAmountsPayload(am)
	}

	clave := issuer.FiscalKey
	if !issuer.RequiresDelegation {
		clave = ""
	}

	return &dto.InvoicePayload{
		Emisor: dto.IssuerPayload{
			RazonSocial:        issuer.LegalName,
			CUIT:               afip.SanitizeDigits(issuer.TaxID),
			Domicilio:          issuer.Address,
			CondicionIVA:       string(issuer.VATCondition),
			RequiereDelegacion: issuer.RequiresDelegation,
			ClaveFiscal:        clave,
		},
		Receptor: dto.RecipientPayload{
			RazonSocial:    recipient.LegalName,
			CUITDNI:        afip.SanitizeDigits(recipient.TaxID),
			Domicilio:      recipient.Address,
			CondicionIVA:   string(recipient.VATCondition),
			CondicionVenta: string(recipient.SaleCondition),
		},
		DatosFacturacion: dto.BillingPayload{
			TipoFactura:      string(header.InvoiceType),
			ServicioProducto: string(header.Concept),
			FechaInicio:      formatDate(header.PeriodStart),
			FechaFin:         formatDate(header.PeriodEnd),
			FechaVencimiento: formatDate(header.DueDate),
		},
		Items: payloadItems,
		Totales: dto.TotalsPayload{
			Moneda:          b.currency,
			TipoFactura:     string(header.InvoiceType),
			TotalNeto:       money(totals.Net),
			TotalIVA21:      money(totals.VAT),
			Total:           money(totals.Gross),
			ItemsCalculados: calculated,
			Nota:            b.vatNote(),
		},
		Meta: dto.MetaPayload{
			CreatedAt: now.Format("2006-01-02T15:04:05"),
			Source:    b.source,
		},
	}, nil
}

func (b *PayloadBuilder) vatNote() string {
	pct := b.calc.VATRate().Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Factura A/B: total = neto + IVA %s%%. Factura C: sin desglose de IVA.", pct.String())
}

func canonicalDiscount(raw string) (*string, error) {
	d, ok, err := afip.ParseOptionalDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("descuento %q: %w", strings.TrimSpace(raw), err)
	}
	if !ok {
		return nil, nil
	}
	s := d.String()
	return &s, nil
}

func toLineAmountsPayload(am *entity.LineAmounts) *dto.LineAmountsPayload {
	if am == nil {
		return nil
	}
	return &dto.LineAmountsPayload{
		UnitNet:       money(am.UnitNet),
		UnitIVA:       money(am.UnitVAT),
		UnitGross:     money(am.UnitGross),
		SubtotalNet:   money(am.SubtotalNet),
		SubtotalIVA:   money(am.SubtotalVAT),
		SubtotalGross: money(am.SubtotalGross),
	}
}

// money redondea a centavos para la salida; el cálculo interno conserva la precisión completa.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(jsonsafe.DateLayout)
}
