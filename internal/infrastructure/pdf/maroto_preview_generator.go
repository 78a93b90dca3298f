// Package pdf genera la vista previa imprimible del borrador de factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de factura + BORRADOR │ Período + Vencimiento │
//	│  EMISOR: Razón social / CUIT / Condición IVA                │
//	│  RECEPTOR: Razón social / CUIT-DNI / Condición de venta     │
//	│  TABLA: Cant | Descripción | P.Unit | Desc. | Subtotal      │
//	│  TOTALES: Neto / IVA / TOTAL (sin desglose en Factura C)    │
//	│  FOOTER: leyenda de documento no válido como factura        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/pkg/afip"
	"github.com/optimizar-ia/facturador/pkg/jsonsafe"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 85, Blue: 140}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPreviewGenerator implementa billing.PreviewPDFGenerator usando Maroto v2.
type MarotoPreviewGenerator struct{}

// NewMarotoPreviewGenerator construye el generador.
func NewMarotoPreviewGenerator() *MarotoPreviewGenerator { return &MarotoPreviewGenerator{} }

// GeneratePreviewPDF genera el PDF del borrador y devuelve sus bytes.
func (g *MarotoPreviewGenerator) GeneratePreviewPDF(_ context.Context, doc appbilling.PreviewDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Borrador de factura", true).
		WithAuthor(nonEmpty(doc.Issuer.LegalName, "facturador"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Issuer))
	m.AddRows(recipientRow(doc.Recipient))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	if len(doc.CalcErrors) > 0 {
		m.AddRows(calcErrorRows(doc.CalcErrors)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc appbilling.PreviewDocument) core.Row {
	title := nonEmpty(string(doc.Header.InvoiceType), "Factura (tipo sin seleccionar)")
	period := fmt.Sprintf("Período: %s al %s", dateText(doc.Header.PeriodStart), dateText(doc.Header.PeriodEnd))

	return row.New(18).Add(
		col.New(7).Add(
			text.New(strings.ToUpper(title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("BORRADOR · paso: "+string(doc.Step), props.Text{
				Size: 8, Top: 9, Color: colorRed,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(string(doc.Header.Concept), "-"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(period, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Vencimiento: "+dateText(doc.Header.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func issuerRow(in entity.Issuer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(in.LegalName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(fmt.Sprintf("CUIT: %s   |   %s   |   %s",
				nonEmpty(in.TaxID, "-"),
				nonEmpty(string(in.VATCondition), "-"),
				nonEmpty(in.Address, "-"),
			), props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func recipientRow(in entity.Recipient) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(in.LegalName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(fmt.Sprintf("CUIT/DNI: %s   |   %s   |   Venta: %s",
				nonEmpty(in.TaxID, "-"),
				nonEmpty(string(in.VATCondition), "-"),
				nonEmpty(string(in.SaleCondition), "-"),
			), props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("Unidad", 2, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func itemRows(doc appbilling.PreviewDocument) []core.Row {
	rows := make([]core.Row, 0, len(doc.Items))
	for i, it := range doc.Items {
		subtotal := "error"
		if i < len(doc.Amounts) && doc.Amounts[i] != nil {
			subtotal = money(doc.Amounts[i].SubtotalGross)
		}
		price := money(it.UnitPrice)
		if doc.Header.InvoiceType.ItemizesVAT() && it.PriceMode == afip.PriceExcludesVAT {
			price += " + IVA"
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(nonEmpty(it.Description, "-"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(it.Unit, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(nonEmpty(strings.TrimSpace(it.Discount), "-"), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(subtotal, props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalsRow(doc appbilling.PreviewDocument) core.Row {
	label := func(s string, grand bool) core.Component {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if grand {
			p.Size, p.Color = 10, colorPrimary
		}
		return text.New(s, p)
	}
	value := func(s string, grand bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, p)
	}

	if !doc.Header.InvoiceType.ItemizesVAT() {
		return row.New(10).Add(
			col.New(6),
			col.New(3).Add(label("TOTAL:", true)),
			col.New(3).Add(value(money(doc.Totals.Gross)+" "+doc.Currency, true)),
		)
	}

	vatLabel := "IVA:"
	if rate, err := decimal.NewFromString(doc.VATRate); err == nil {
		vatLabel = fmt.Sprintf("IVA %s%%:", rate.Mul(decimal.NewFromInt(100)).String())
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Neto:", false),
			label(vatLabel, false),
			label("TOTAL:", true),
		),
		col.New(3).Add(
			value(money(doc.Totals.Net), false),
			value(money(doc.Totals.VAT), false),
			value(money(doc.Totals.Gross)+" "+doc.Currency, true),
		),
	)
}

func calcErrorRows(errs []string) []core.Row {
	rows := make([]core.Row, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+e, props.Text{Size: 7.5, Color: colorRed, Top: 1}),
		)))
	}
	return rows
}

func footerRow(doc appbilling.PreviewDocument) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Documento no válido como factura. Vista previa generada antes del envío al sistema de "+
				"facturación. Sesión "+doc.SessionID+".",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func money(d decimal.Decimal) string {
	return "$ " + afip.FormatMoney(d)
}

func dateText(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(jsonsafe.DateLayout)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
