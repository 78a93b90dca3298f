package dto

import (
	"encoding/json"
	"time"
)

// BillingRequest tipo de factura, concepto y fechas (DD/MM/YYYY o YYYY-MM-DD).
type BillingRequest struct {
	TipoFactura      string `json:"tipo_factura"`
	ServicioProducto string `json:"servicio_producto"`
	FechaInicio      string `json:"fecha_inicio"`
	FechaFin         string `json:"fecha_fin"`
	FechaVencimiento string `json:"fecha_vencimiento"`
}

// IssuerRequest datos del emisor.
type IssuerRequest struct {
	RazonSocial        string `json:"razon_social"`
	CUIT               string `json:"cuit"`
	Domicilio          string `json:"domicilio"`
	CondicionIVA       string `json:"condicion_iva"`
	RequiereDelegacion bool   `json:"requiere_delegacion"`
	ClaveFiscal        string `json:"clave_fiscal"`
}

// RecipientRequest datos del receptor.
type RecipientRequest struct {
	RazonSocial    string `json:"razon_social"`
	CUITDNI        string `json:"cuit_dni"`
	Domicilio      string `json:"domicilio"`
	CondicionIVA   string `json:"condicion_iva"`
	CondicionVenta string `json:"condicion_venta"`
}

// ItemRequest campos editables de un ítem.
type ItemRequest struct {
	Codigo                string    `json:"codigo"`
	Descripcion           string    `json:"descripcion"`
	Cantidad              FormValue `json:"cantidad"`
	UnidadMedida          string    `json:"unidad_medida"`
	PrecioModo            string    `json:"precio_modo"`
	PrecioUnitario        FormValue `json:"precio_unitario"`
	DescuentoBonificacion FormValue `json:"descuento_bonificacion"`
}

// ItemResponse ítem tal como está cargado en la sesión.
type ItemResponse struct {
	UID                   string `json:"uid"`
	Codigo                string `json:"codigo"`
	Descripcion           string `json:"descripcion"`
	Cantidad              string `json:"cantidad"`
	UnidadMedida          string `json:"unidad_medida"`
	PrecioModo            string `json:"precio_modo"`
	PrecioUnitario        string `json:"precio_unitario"`
	DescuentoBonificacion string `json:"descuento_bonificacion"`
}

// WebhookResult resultado del último envío.
type WebhookResult struct {
	OK         bool            `json:"ok"`
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	SentAt     time.Time       `json:"sent_at"`
}

// SessionResponse estado del asistente.
type SessionResponse struct {
	ID            string           `json:"id"`
	Step          string           `json:"step"`
	Facturacion   BillingRequest   `json:"facturacion"`
	Emisor        IssuerRequest    `json:"emisor"`
	Receptor      RecipientRequest `json:"receptor"`
	Items         []ItemResponse   `json:"items"`
	LastPayload   json.RawMessage  `json:"last_payload,omitempty"`
	LastSavedPath string           `json:"last_saved_path,omitempty"`
	LastSaveError string           `json:"last_save_error,omitempty"`
	LastWebhook   *WebhookResult   `json:"last_webhook_result,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// LinePreview importes en vivo de un ítem; Amounts es nil si el ítem no se pudo calcular.
type LinePreview struct {
	UID     string              `json:"uid"`
	Amounts *LineAmountsPayload `json:"importes"`
	Error   string              `json:"error,omitempty"`
}

// FormattedTotals totales con formato local ($ 1.234,56).
type FormattedTotals struct {
	Neto  string `json:"neto"`
	IVA   string `json:"iva"`
	Total string `json:"total"`
}

// PreviewResponse importes y totales en vivo durante la edición.
type PreviewResponse struct {
	TipoFactura string          `json:"tipo_factura"`
	DesgloseIVA bool            `json:"desglose_iva"`
	Items       []LinePreview   `json:"items"`
	TotalNeto   json.Number     `json:"total_neto"`
	TotalIVA    json.Number     `json:"total_iva"`
	Total       json.Number     `json:"total"`
	Formateados FormattedTotals `json:"formateados"`
	ErroresCalc []string        `json:"errores_calculo"`
	ErroresForm []string        `json:"errores_formulario"`
}

// SubmitResponse resultado de guardar y enviar una factura confirmada.
type SubmitResponse struct {
	Archivo      string         `json:"archivo,omitempty"`
	ErrorArchivo string         `json:"error_archivo,omitempty"`
	Webhook      *WebhookResult `json:"webhook"`
}

// CatalogsResponse opciones de los desplegables.
type CatalogsResponse struct {
	TiposFactura     []string `json:"tipos_factura"`
	CondicionesIVA   []string `json:"condiciones_iva"`
	CondicionesVenta []string `json:"condiciones_venta"`
	ServicioProducto []string `json:"servicio_producto"`
	UnidadesMedida   []string `json:"unidades_medida"`
	PreciosModo      []string `json:"precios_modo"`
}
