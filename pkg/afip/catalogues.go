// Package afip contiene los catálogos fijos que usa el asistente de facturación
// (tipos de factura, condiciones frente al IVA, condiciones de venta, unidades de medida)
// tal como los publica la AFIP para el comprobante en línea.
package afip

// =============================================================================
// Tipos de comprobante
// =============================================================================

// InvoiceType tipo de factura. A y B discriminan IVA; C no.
type InvoiceType string

const (
	InvoiceTypeA InvoiceType = "Factura A"
	InvoiceTypeB InvoiceType = "Factura B"
	InvoiceTypeC InvoiceType = "Factura C"
)

// InvoiceTypeOptions orden de presentación en el formulario.
var InvoiceTypeOptions = []InvoiceType{InvoiceTypeA, InvoiceTypeB, InvoiceTypeC}

// Valid indica si el valor pertenece al catálogo.
func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypeA, InvoiceTypeB, InvoiceTypeC:
		return true
	}
	return false
}

// ItemizesVAT es true para Factura A y B, que desglosan IVA por ítem.
func (t InvoiceType) ItemizesVAT() bool {
	return t == InvoiceTypeA || t == InvoiceTypeB
}

// =============================================================================
// Modo de carga del precio unitario
// =============================================================================

// PriceMode indica si el precio unitario ingresado incluye IVA.
type PriceMode string

const (
	PriceIncludesVAT PriceMode = "con_iva"
	PriceExcludesVAT PriceMode = "sin_iva"
)

// Valid indica si el modo es conocido.
func (m PriceMode) Valid() bool {
	return m == PriceIncludesVAT || m == PriceExcludesVAT
}

// =============================================================================
// Condición frente al IVA
// =============================================================================

// VATCondition condición del emisor o receptor frente al IVA.
type VATCondition string

const (
	VATResponsableInscripto       VATCondition = "IVA Responsable Inscripto"
	VATSujetoExento               VATCondition = "IVA Sujeto Exento"
	VATConsumidorFinal            VATCondition = "Consumidor Final"
	VATResponsableMonotributo     VATCondition = "Responsable Monotributo"
	VATSujetoNoCategorizado       VATCondition = "Sujeto No Categorizado"
	VATProveedorExterior          VATCondition = "Proveedor del Exterior"
	VATClienteExterior            VATCondition = "Cliente del Exterior"
	VATLiberadoLey19640           VATCondition = "IVA Liberado – Ley N° 19.640"
	VATMonotributistaSocial       VATCondition = "Monotributista Social"
	VATNoAlcanzado                VATCondition = "IVA No Alcanzado"
	VATMonotributoTrabajadorIndep VATCondition = "Monotributo Trabajador Independiente Promovido"
)

// VATConditionOptions las 11 condiciones, en el orden del formulario AFIP.
var VATConditionOptions = []VATCondition{
	VATResponsableInscripto,
	VATSujetoExento,
	VATConsumidorFinal,
	VATResponsableMonotributo,
	VATSujetoNoCategorizado,
	VATProveedorExterior,
	VATClienteExterior,
	VATLiberadoLey19640,
	VATMonotributistaSocial,
	VATNoAlcanzado,
	VATMonotributoTrabajadorIndep,
}

// Valid indica si la condición pertenece al catálogo.
func (c VATCondition) Valid() bool {
	for _, o := range VATConditionOptions {
		if o == c {
			return true
		}
	}
	return false
}

// =============================================================================
// Condición de venta
// =============================================================================

// SaleCondition condición de venta del receptor.
type SaleCondition string

const (
	SaleContado                SaleCondition = "Contado"
	SaleCuentaCorriente        SaleCondition = "Cuenta Corriente"
	SaleTarjetaDebito          SaleCondition = "Tarjeta de Débito"
	SaleTarjetaCredito         SaleCondition = "Tarjeta de Crédito"
	SaleCheque                 SaleCondition = "Cheque"
	SaleTicket                 SaleCondition = "Ticket / Tiquet"
	SaleOtrosMediosElectronico SaleCondition = "Otros medios de pago electrónico"
	SaleTransferencia          SaleCondition = "Transferencia Bancaria"
	SaleOtra                   SaleCondition = "Otra"
)

// SaleConditionOptions las 9 condiciones de venta.
var SaleConditionOptions = []SaleCondition{
	SaleContado,
	SaleCuentaCorriente,
	SaleTarjetaDebito,
	SaleTarjetaCredito,
	SaleCheque,
	SaleTicket,
	SaleOtrosMediosElectronico,
	SaleTransferencia,
	SaleOtra,
}

// Valid indica si la condición pertenece al catálogo.
func (c SaleCondition) Valid() bool {
	for _, o := range SaleConditionOptions {
		if o == c {
			return true
		}
	}
	return false
}

// =============================================================================
// Concepto (Producto / Servicio)
// =============================================================================

// Concept clasificación de lo facturado.
type Concept string

const (
	ConceptProduct        Concept = "Producto"
	ConceptService        Concept = "Servicio"
	ConceptProductService Concept = "Producto/Servicio"
)

// ConceptOptions orden del formulario.
var ConceptOptions = []Concept{ConceptProduct, ConceptService, ConceptProductService}

// Valid indica si el concepto pertenece al catálogo.
func (c Concept) Valid() bool {
	switch c {
	case ConceptProduct, ConceptService, ConceptProductService:
		return true
	}
	return false
}

// =============================================================================
// Unidades de medida
// =============================================================================

// DefaultUnit unidad asignada a los ítems nuevos.
const DefaultUnit = "Unidad"

// UnitsOfMeasure listado de unidades de medida del comprobante en línea.
var UnitsOfMeasure = []string{
	"Sin descripción",
	"Kilogramo",
	"Metros",
	"Metro cuadrado",
	"Metro cubico",
	"Litros",
	"1000 kilowatt hora",
	"Unidad",
	"Par",
	"Docena",
	"Quilate",
	"Millar",
	"Mega-u. int. act. antib",
	"Unidad int. act. inmung",
	"Gramo",
	"Milimetro",
	"Milimetro cubico",
	"Kilometro",
	"Hectolitro",
	"Mega u. int. act. inmung.",
	"Centímetro",
	"Kilogramo activo",
	"Gramo activo",
	"Gramo base",
	"Uiacthor",
	"Juego o paquete mazo de naipes",
	"Muiacthor",
	"Centimetro cubico",
	"Uiactant",
	"Tonelada",
	"Decametro cubico",
	"Hectometro cubico",
	"Kilometro cubico",
	"Microgramo",
	"Nanogramo",
	"Picogramo",
	"Muiactant",
	"Uiactig",
	"Miligramo",
	"Mililitro",
	"Curie",
	"Milicurie",
	"Microcurie",
	"U. inter. act. hor.",
	"Mega u. inter. act. hor.",
	"Kilogramo base",
	"Gruesa",
	"Muiactig",
	"Kg. bruto",
	"Pack",
	"Horma",
	"Otras unidades",
}

var validUnits = func() map[string]bool {
	m := make(map[string]bool, len(UnitsOfMeasure))
	for _, u := range UnitsOfMeasure {
		m[u] = true
	}
	return m
}()

// ValidUnit indica si la unidad pertenece al catálogo.
func ValidUnit(u string) bool {
	return validUnits[u]
}
