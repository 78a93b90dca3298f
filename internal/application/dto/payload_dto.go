package dto

import "encoding/json"

// InvoicePayload documento que se envía al webhook y se guarda en disco.
// Los importes son números JSON con dos decimales; las fechas, texto DD/MM/YYYY.
type InvoicePayload struct {
	Emisor           IssuerPayload    `json:"emisor"`
	Receptor         RecipientPayload `json:"receptor"`
	DatosFacturacion BillingPayload   `json:"datos_facturacion"`
	Items            []ItemPayload    `json:"items"`
	Totales          TotalsPayload    `json:"totales"`
	Meta             MetaPayload      `json:"meta"`
}

type IssuerPayload struct {
	RazonSocial        string `json:"razon_social"`
	CUIT               string `json:"cuit"`
	Domicilio          string `json:"domicilio"`
	CondicionIVA       string `json:"condicion_iva"`
	RequiereDelegacion bool   `json:"requiere_delegacion"`
	ClaveFiscal        string `json:"clave_fiscal"`
}

type RecipientPayload struct {
	RazonSocial    string `json:"razon_social"`
	CUITDNI        string `json:"cuit_dni"`
	Domicilio      string `json:"domicilio"`
	CondicionIVA   string `json:"condicion_iva"`
	CondicionVenta string `json:"condicion_venta"`
}

type BillingPayload struct {
	TipoFactura      string `json:"tipo_factura"`
	ServicioProducto string `json:"servicio_producto"`
	FechaInicio      string `json:"fecha_inicio"`
	FechaFin         string `json:"fecha_fin"`
	FechaVencimiento string `json:"fecha_vencimiento"`
}

// ItemPayload ítem normalizado. DescuentoBonificacion es nil cuando no se cargó descuento.
type ItemPayload struct {
	UID                   string      `json:"uid"`
	Codigo                string      `json:"codigo"`
	Descripcion           string      `json:"descripcion"`
	Cantidad              json.Number `json:"cantidad"`
	UnidadMedida          string      `json:"unidad_medida"`
	PrecioModo            string      `json:"precio_modo"`
	PrecioUnitario        json.Number `json:"precio_unitario"`
	DescuentoBonificacion *string     `json:"descuento_bonificacion"`
}

// LineAmountsPayload importes calculados de un ítem.
type LineAmountsPayload struct {
	UnitNet       json.Number `json:"unit_net"`
	UnitIVA       json.Number `json:"unit_iva"`
	UnitGross     json.Number `json:"unit_gross"`
	SubtotalNet   json.Number `json:"subtotal_net"`
	SubtotalIVA   json.Number `json:"subtotal_iva"`
	SubtotalGross json.Number `json:"subtotal_gross"`
}

// TotalsPayload totales. ItemsCalculados conserva null en la posición de un ítem que no se pudo calcular.
type TotalsPayload struct {
	Moneda          string                `json:"moneda"`
	TipoFactura     string                `json:"tipo_factura"`
	TotalNeto       json.Number           `json:"total_neto"`
	TotalIVA21      json.Number           `json:"total_iva_21"`
	Total           json.Number           `json:"total"`
	ItemsCalculados []*LineAmountsPayload `json:"items_calculados"`
	Nota            string                `json:"nota"`
}

type MetaPayload struct {
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}
