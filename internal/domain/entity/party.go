package entity

import "github.com/optimizar-ia/facturador/pkg/afip"

// Issuer datos del emisor. FiscalKey solo aplica si RequiresDelegation está activo.
type Issuer struct {
	LegalName          string            `json:"razon_social"`
	TaxID              string            `json:"cuit"`
	Address            string            `json:"domicilio"`
	VATCondition       afip.VATCondition `json:"condicion_iva"`
	RequiresDelegation bool              `json:"requiere_delegacion"`
	FiscalKey          string            `json:"clave_fiscal"`
}

// Recipient datos del receptor (CUIT o DNI).
type Recipient struct {
	LegalName     string             `json:"razon_social"`
	TaxID         string             `json:"cuit_dni"`
	Address       string             `json:"domicilio"`
	VATCondition  afip.VATCondition  `json:"condicion_iva"`
	SaleCondition afip.SaleCondition `json:"condicion_venta"`
}
