package invoice

import (
	"fmt"
	"strings"

	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

// MsgNoItems error único cuando la factura no tiene ítems.
const MsgNoItems = "Debes agregar al menos 1 item."

// ValidationErrors lista plana de errores legibles del formulario.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return "formulario inválido: " + strings.Join(v, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (v ValidationErrors) Unwrap() error { return domain.ErrInvalidInput }

// ValidateAll recorre todo el formulario y devuelve todos los errores encontrados (no corta en el
// primero). No modifica el estado recibido.
func ValidateAll(header entity.Header, issuer entity.Issuer, recipient entity.Recipient, items []entity.LineItem) ValidationErrors {
	var errs ValidationErrors

	if !header.InvoiceType.Valid() {
		errs = append(errs, "Tipo de Factura: es obligatorio seleccionar una opción.")
	}
	if header.PeriodStart.IsZero() {
		errs = append(errs, "Fecha de inicio: es obligatoria.")
	}
	if header.PeriodEnd.IsZero() {
		errs = append(errs, "Fecha de fin: es obligatoria.")
	}
	if header.DueDate.IsZero() {
		errs = append(errs, "Fecha de vencimiento: es obligatoria.")
	}

	if isBlank(issuer.LegalName) {
		errs = append(errs, "Emisor - Nombre/razón social: Este campo es obligatorio.")
	}
	if !afip.IsDigitsOnly(issuer.TaxID) {
		errs = append(errs, "Emisor - CUIT: Debe contener solo números y no puede estar vacío.")
	}
	if !issuer.VATCondition.Valid() {
		errs = append(errs, "Emisor - Condición frente al IVA: es obligatoria.")
	}
	if issuer.RequiresDelegation && isBlank(issuer.FiscalKey) {
		errs = append(errs, "Emisor - Clave Fiscal: es obligatoria si se requiere Delegación de servicios.")
	}

	if isBlank(recipient.LegalName) {
		errs = append(errs, "Receptor - Nombre/razón social: Este campo es obligatorio.")
	}
	if !afip.IsDigitsOnly(recipient.TaxID) {
		errs = append(errs, "Receptor - CUIT/DNI: Debe contener solo números y no puede estar vacío.")
	}
	if !recipient.VATCondition.Valid() {
		errs = append(errs, "Receptor - Condición frente al IVA: es obligatoria.")
	}
	if !recipient.SaleCondition.Valid() {
		errs = append(errs, "Receptor - Condición de venta: es obligatoria.")
	}

	if !header.Concept.Valid() {
		errs = append(errs, "Datos de Facturación - Servicio/Producto: es obligatorio.")
	}

	errs = append(errs, ValidateItems(items)...)
	return errs
}

// ValidateItems valida cada ítem. Sin ítems devuelve un único error.
func ValidateItems(items []entity.LineItem) ValidationErrors {
	if len(items) == 0 {
		return ValidationErrors{MsgNoItems}
	}
	var errs ValidationErrors
	for i, it := range items {
		n := i + 1
		if isBlank(it.Description) {
			errs = append(errs, fmt.Sprintf("Item %d: 'Descripción' es obligatoria.", n))
		}
		if !it.Quantity.IsPositive() {
			errs = append(errs, fmt.Sprintf("Item %d: 'Cantidad' debe ser > 0.", n))
		}
		if !it.UnitPrice.IsPositive() {
			errs = append(errs, fmt.Sprintf("Item %d: 'Precio Unitario' debe ser > 0.", n))
		}
		if d, ok, err := afip.ParseOptionalDecimal(it.Discount); err != nil {
			errs = append(errs, fmt.Sprintf("Item %d: 'Descuento/Bonificación' no es un número válido.", n))
		} else if ok && d.IsNegative() {
			errs = append(errs, fmt.Sprintf("Item %d: 'Descuento/Bonificación' no puede ser negativo.", n))
		}
		if isBlank(it.Unit) {
			errs = append(errs, fmt.Sprintf("Item %d: 'Unidad de medida' es obligatoria.", n))
		}
	}
	return errs
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
