package billing

import (
	"context"
	"time"

	"github.com/optimizar-ia/facturador/internal/domain/entity"
)

// SessionStore persiste el estado del asistente. Get devuelve domain.ErrNotFound si no existe.
type SessionStore interface {
	Create(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
}

// WebhookSender envía el payload al flujo externo.
// Una respuesta no-2xx vuelve como resultado con OK=false; error solo ante fallas de transporte.
type WebhookSender interface {
	Send(ctx context.Context, payload any) (*entity.SubmissionResult, error)
}

// PayloadArchive guarda una copia JSON local de cada factura enviada y devuelve la ruta.
type PayloadArchive interface {
	Save(ctx context.Context, payload any, at time.Time) (string, error)
}

// PreviewDocument datos para la vista previa imprimible del borrador.
type PreviewDocument struct {
	SessionID  string
	Step       entity.Step
	Header     entity.Header
	Issuer     entity.Issuer
	Recipient  entity.Recipient
	Items      []entity.LineItem
	Amounts    []*entity.LineAmounts
	Totals     entity.Totals
	CalcErrors []string
	VATRate    string
	Currency   string
}

// PreviewPDFGenerator genera el PDF de la vista previa.
type PreviewPDFGenerator interface {
	GeneratePreviewPDF(ctx context.Context, doc PreviewDocument) ([]byte, error)
}

// Metrics instrumentación del flujo de envío.
type Metrics interface {
	ObserveFinalize(valid bool)
	ObserveSubmission(invoiceType string, ok bool, elapsed time.Duration)
	ObserveArchive(ok bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFinalize(bool)                          {}
func (nopMetrics) ObserveSubmission(string, bool, time.Duration) {}
func (nopMetrics) ObserveArchive(bool)                           {}
