package billing

import (
	"encoding/json"

	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
)

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	items := make([]dto.ItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = dto.ItemResponse{
			UID:                   it.UID,
			Codigo:                it.Code,
			Descripcion:           it.Description,
			Cantidad:              it.Quantity.String(),
			UnidadMedida:          it.Unit,
			PrecioModo:            string(it.PriceMode),
			PrecioUnitario:        it.UnitPrice.String(),
			DescuentoBonificacion: it.Discount,
		}
	}
	out := &dto.SessionResponse{
		ID:   s.ID,
		Step: string(s.Step),
		Facturacion: dto.BillingRequest{
			TipoFactura:      string(s.Header.InvoiceType),
			ServicioProducto: string(s.Header.Concept),
			FechaInicio:      formatDate(s.Header.PeriodStart),
			FechaFin:         formatDate(s.Header.PeriodEnd),
			FechaVencimiento: formatDate(s.Header.DueDate),
		},
		Emisor: dto.IssuerRequest{
			RazonSocial:        s.Issuer.LegalName,
			CUIT:               s.Issuer.TaxID,
			Domicilio:          s.Issuer.Address,
			CondicionIVA:       string(s.Issuer.VATCondition),
			RequiereDelegacion: s.Issuer.RequiresDelegation,
			ClaveFiscal:        s.Issuer.FiscalKey,
		},
		Receptor: dto.RecipientRequest{
			RazonSocial:    s.Recipient.LegalName,
			CUITDNI:        s.Recipient.TaxID,
			Domicilio:      s.Recipient.Address,
			CondicionIVA:   string(s.Recipient.VATCondition),
			CondicionVenta: string(s.Recipient.SaleCondition),
		},
		Items:         items,
		LastSavedPath: s.LastSavedPath,
		LastSaveError: s.LastSaveError,
		LastWebhook:   toWebhookResult(s.LastSubmission),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if len(s.LastPayload) > 0 {
		out.LastPayload = append(json.RawMessage(nil), s.LastPayload...)
	}
	return out
}

func toWebhookResult(r *entity.SubmissionResult) *dto.WebhookResult {
	if r == nil {
		return nil
	}
	return &dto.WebhookResult{
		OK:         r.OK,
		StatusCode: r.StatusCode,
		Response:   r.Response,
		Error:      r.Error,
		SentAt:     r.SentAt,
	}
}
