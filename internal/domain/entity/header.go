package entity

import (
	"time"

	"github.com/optimizar-ia/facturador/pkg/afip"
)

// Header datos de facturación. Una fecha en cero se considera no cargada.
type Header struct {
	InvoiceType afip.InvoiceType `json:"tipo_factura"`
	Concept     afip.Concept     `json:"servicio_producto"`
	PeriodStart time.Time        `json:"fecha_inicio"`
	PeriodEnd   time.Time        `json:"fecha_fin"`
	DueDate     time.Time        `json:"fecha_vencimiento"`
}
