package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/pkg/afip"
)

// Catalogs godoc
// @Summary      Opciones de los desplegables del formulario
// @Tags         catalogs
// @Produce      json
// @Success      200  {object}  dto.CatalogsResponse
// @Router       /api/catalogs [get]
func Catalogs(c *fiber.Ctx) error {
	return c.JSON(catalogs())
}

func catalogs() dto.CatalogsResponse {
	out := dto.CatalogsResponse{
		UnidadesMedida: append([]string(nil), afip.UnitsOfMeasure...),
		PreciosModo:    []string{string(afip.PriceIncludesVAT), string(afip.PriceExcludesVAT)},
	}
	for _, t := range afip.InvoiceTypeOptions {
		out.TiposFactura = append(out.TiposFactura, string(t))
	}
	for _, v := range afip.VATConditionOptions {
		out.CondicionesIVA = append(out.CondicionesIVA, string(v))
	}
	for _, s := range afip.SaleConditionOptions {
		out.CondicionesVenta = append(out.CondicionesVenta, string(s))
	}
	for _, k := range afip.ConceptOptions {
		out.ServicioProducto = append(out.ServicioProducto, string(k))
	}
	return out
}
