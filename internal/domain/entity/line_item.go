package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/optimizar-ia/facturador/pkg/afip"
)

// LineItem ítem a facturar tal como lo carga el usuario.
// Discount se guarda como texto ingresado (coma o punto) y se interpreta al calcular.
type LineItem struct {
	UID         string          `json:"uid"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad_medida"`
	PriceMode   afip.PriceMode  `json:"precio_modo"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Discount    string          `json:"descuento_bonificacion"`
}

// NewLineItem crea un ítem con los valores por defecto del formulario.
func NewLineItem() LineItem {
	return LineItem{
		UID:       uuid.New().String(),
		Quantity:  decimal.NewFromInt(1),
		Unit:      afip.DefaultUnit,
		PriceMode: afip.PriceIncludesVAT,
		UnitPrice: decimal.Zero,
	}
}
