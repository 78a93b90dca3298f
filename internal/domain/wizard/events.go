// Package wizard modela las transiciones del asistente de carga (edición → revisión →
// confirmación) como funciones puras: reciben el estado actual y un evento y devuelven
// un estado nuevo, sin modificar el recibido.
package wizard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

// Event edición del formulario. Solo se aplica en el paso de edición.
type Event interface {
	apply(s *entity.Session) error
}

// SetInvoiceType selecciona el tipo de factura ("" vuelve a "sin seleccionar").
type SetInvoiceType struct {
	InvoiceType afip.InvoiceType
}

func (e SetInvoiceType) apply(s *entity.Session) error {
	if e.InvoiceType != "" && !e.InvoiceType.Valid() {
		return fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, e.InvoiceType)
	}
	s.Header.InvoiceType = e.InvoiceType
	if e.InvoiceType != "" && !e.InvoiceType.ItemizesVAT() {
		for i := range s.Items {
			s.Items[i].PriceMode = afip.PriceIncludesVAT
		}
	}
	return nil
}

// UpdateBilling reemplaza concepto y fechas de facturación.
type UpdateBilling struct {
	Concept     afip.Concept
	PeriodStart time.Time
	PeriodEnd   time.Time
	DueDate     time.Time
}

func (e UpdateBilling) apply(s *entity.Session) error {
	if e.Concept != "" && !e.Concept.Valid() {
		return fmt.Errorf("%w: servicio/producto %q", domain.ErrInvalidInput, e.Concept)
	}
	s.Header.Concept = e.Concept
	s.Header.PeriodStart = e.PeriodStart
	s.Header.PeriodEnd = e.PeriodEnd
	s.Header.DueDate = e.DueDate
	return nil
}

// UpdateIssuer reemplaza los datos del emisor. El CUIT se limpia a solo dígitos y la clave
// fiscal se descarta si no se requiere delegación.
type UpdateIssuer struct {
	Issuer entity.Issuer
}

func (e UpdateIssuer) apply(s *entity.Session) error {
	in := e.Issuer
	if in.VATCondition != "" && !in.VATCondition.Valid() {
		return fmt.Errorf("%w: condición frente al IVA %q", domain.ErrInvalidInput, in.VATCondition)
	}
	in.TaxID = afip.SanitizeDigits(in.TaxID)
	if !in.RequiresDelegation {
		in.FiscalKey = ""
	}
	s.Issuer = in
	return nil
}

// UpdateRecipient reemplaza los datos del receptor. El CUIT/DNI se limpia a solo dígitos.
type UpdateRecipient struct {
	Recipient entity.Recipient
}

func (e UpdateRecipient) apply(s *entity.Session) error {
	in := e.Recipient
	if in.VATCondition != "" && !in.VATCondition.Valid() {
		return fmt.Errorf("%w: condición frente al IVA %q", domain.ErrInvalidInput, in.VATCondition)
	}
	if in.SaleCondition != "" && !in.SaleCondition.Valid() {
		return fmt.Errorf("%w: condición de venta %q", domain.ErrInvalidInput, in.SaleCondition)
	}
	in.TaxID = afip.SanitizeDigits(in.TaxID)
	s.Recipient = in
	return nil
}

// AddItem agrega un ítem con valores por defecto al final de la lista.
type AddItem struct{}

func (AddItem) apply(s *entity.Session) error {
	s.Items = append(s.Items, entity.NewLineItem())
	return nil
}

// UpdateItem reemplaza los campos editables de un ítem. Cantidad y precio llegan como texto
// del formulario (coma o punto); vacío equivale a cero.
type UpdateItem struct {
	UID         string
	Code        string
	Description string
	Quantity    string
	Unit        string
	PriceMode   afip.PriceMode
	UnitPrice   string
	Discount    string
}

func (e UpdateItem) apply(s *entity.Session) error {
	idx := indexOf(s.Items, e.UID)
	if idx < 0 {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, e.UID)
	}
	qty, err := parseAmount("cantidad", e.Quantity)
	if err != nil {
		return err
	}
	price, err := parseAmount("precio unitario", e.UnitPrice)
	if err != nil {
		return err
	}
	if e.Unit != "" && !afip.ValidUnit(e.Unit) {
		return fmt.Errorf("%w: unidad de medida %q", domain.ErrInvalidInput, e.Unit)
	}
	mode := e.PriceMode
	if mode == "" || !s.Header.InvoiceType.ItemizesVAT() {
		mode = afip.PriceIncludesVAT
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: modo de precio %q", domain.ErrInvalidInput, e.PriceMode)
	}

	it := &s.Items[idx]
	it.Code = e.Code
	it.Description = e.Description
	it.Quantity = qty
	it.Unit = e.Unit
	it.PriceMode = mode
	it.UnitPrice = price
	it.Discount = e.Discount
	return nil
}

// RemoveItem elimina un ítem. Nunca deja la factura sin ítems.
type RemoveItem struct {
	UID string
}

func (e RemoveItem) apply(s *entity.Session) error {
	idx := indexOf(s.Items, e.UID)
	if idx < 0 {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, e.UID)
	}
	if len(s.Items) <= 1 {
		return domain.ErrLastItem
	}
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	return nil
}

func indexOf(items []entity.LineItem, uid string) int {
	for i := range items {
		if items[i].UID == uid {
			return i
		}
	}
	return -1
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, _, err := afip.ParseOptionalDecimal(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s debe ser numérica", domain.ErrInvalidInput, field)
	}
	return d, nil
}
