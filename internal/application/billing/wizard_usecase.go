package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/internal/domain/wizard"
	"github.com/optimizar-ia/facturador/pkg/afip"
	"github.com/optimizar-ia/facturador/pkg/logger"
)

// WizardDeps dependencias del asistente. PDF, Metrics y Clock son opcionales.
type WizardDeps struct {
	Store    SessionStore
	Builder  *PayloadBuilder
	Calc     *invoice.Calculator
	Archive  PayloadArchive
	Webhook  WebhookSender
	PDF      PreviewPDFGenerator
	Metrics  Metrics
	Log      *logger.Logger
	Currency string
	Clock    func() time.Time
}

// WizardUseCase casos de uso del asistente de carga: edición, revisión, confirmación y envío.
type WizardUseCase struct {
	store    SessionStore
	builder  *PayloadBuilder
	calc     *invoice.Calculator
	archive  PayloadArchive
	webhook  WebhookSender
	pdf      PreviewPDFGenerator
	metrics  Metrics
	log      *logger.Logger
	currency string
	now      func() time.Time

	locks sync.Map // id de sesión → *sync.Mutex
}

// NewWizardUseCase construye el caso de uso.
func NewWizardUseCase(d WizardDeps) *WizardUseCase {
	uc := &WizardUseCase{
		store:    d.Store,
		builder:  d.Builder,
		calc:     d.Calc,
		archive:  d.Archive,
		webhook:  d.Webhook,
		pdf:      d.PDF,
		metrics:  d.Metrics,
		log:      d.Log,
		currency: d.Currency,
		now:      d.Clock,
	}
	if uc.calc == nil {
		uc.calc = invoice.NewCalculator(invoice.DefaultVATRate)
	}
	if uc.builder == nil {
		uc.builder = NewPayloadBuilder(uc.calc, d.Currency, "")
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.currency == "" {
		uc.currency = "ARS"
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// Start crea una sesión nueva en edición para el operador.
func (uc *WizardUseCase) Start(ctx context.Context, owner string) (*dto.SessionResponse, error) {
	s := entity.NewSession(owner, uc.now())
	if err := uc.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}
	uc.log.Info().Str("session_id", s.ID).Str("owner", owner).Msg("sesión iniciada")
	return toSessionResponse(s), nil
}

// Get devuelve el estado de la sesión.
func (uc *WizardUseCase) Get(ctx context.Context, owner, id string) (*dto.SessionResponse, error) {
	s, err := uc.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(s), nil
}

// Apply aplica los eventos en orden; si alguno falla no se guarda ninguno.
func (uc *WizardUseCase) Apply(ctx context.Context, owner, id string, events ...wizard.Event) (*dto.SessionResponse, error) {
	s, unlock, err := uc.loadLocked(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	now := uc.now()
	for _, ev := range events {
		if s, err = wizard.Apply(s, ev, now); err != nil {
			return nil, err
		}
	}
	if err := uc.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return toSessionResponse(s), nil
}

// SetBilling actualiza tipo de factura, concepto y fechas.
func (uc *WizardUseCase) SetBilling(ctx context.Context, owner, id string, in dto.BillingRequest) (*dto.SessionResponse, error) {
	evs, err := BillingEvents(in)
	if err != nil {
		return nil, err
	}
	return uc.Apply(ctx, owner, id, evs...)
}

// SetIssuer actualiza los datos del emisor.
func (uc *WizardUseCase) SetIssuer(ctx context.Context, owner, id string, in dto.IssuerRequest) (*dto.SessionResponse, error) {
	return uc.Apply(ctx, owner, id, wizard.UpdateIssuer{Issuer: entity.Issuer{
		LegalName:          in.RazonSocial,
		TaxID:              in.CUIT,
		Address:            in.Domicilio,
		VATCondition:       afip.VATCondition(in.CondicionIVA),
		RequiresDelegation: in.RequiereDelegacion,
		FiscalKey:          in.ClaveFiscal,
	}})
}

// SetRecipient actualiza los datos del receptor.
func (uc *WizardUseCase) SetRecipient(ctx context.Context, owner, id string, in dto.RecipientRequest) (*dto.SessionResponse, error) {
	return uc.Apply(ctx, owner, id, wizard.UpdateRecipient{Recipient: entity.Recipient{
		LegalName:     in.RazonSocial,
		TaxID:         in.CUITDNI,
		Address:       in.Domicilio,
		VATCondition:  afip.VATCondition(in.CondicionIVA),
		SaleCondition: afip.SaleCondition(in.CondicionVenta),
	}})
}

// AddItem agrega un ítem vacío.
func (uc *WizardUseCase) AddItem(ctx context.Context, owner, id string) (*dto.SessionResponse, error) {
	return uc.Apply(ctx, owner, id, wizard.AddItem{})
}

// UpdateItem reemplaza los campos de un ítem.
func (uc *WizardUseCase) UpdateItem(ctx context.Context, owner, id, uid string, in dto.ItemRequest) (*dto.SessionResponse, error) {
	return uc.Apply(ctx, owner, id, wizard.UpdateItem{
		UID:         uid,
		Code:        in.Codigo,
		Description: in.Descripcion,
		Quantity:    string(in.Cantidad),
		Unit:        in.UnidadMedida,
		PriceMode:   afip.PriceMode(in.PrecioModo),
		UnitPrice:   string(in.PrecioUnitario),
		Discount:    string(in.DescuentoBonificacion),
	})
}

// RemoveItem elimina un ítem; devuelve domain.ErrLastItem si es el único.
func (uc *WizardUseCase) RemoveItem(ctx context.Context, owner, id, uid string) (*dto.SessionResponse, error) {
	return uc.Apply(ctx, owner, id, wizard.RemoveItem{UID: uid})
}

// Preview recalcula importes por ítem, totales y errores del formulario sin modificar la sesión.
func (uc *WizardUseCase) Preview(ctx context.Context, owner, id string) (*dto.PreviewResponse, error) {
	s, err := uc.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	perItem, totals, calcErrs := uc.calc.ComputeTotals(s.Items, s.Header.InvoiceType)

	lines := make([]dto.LinePreview, len(s.Items))
	for i, it := range s.Items {
		lines[i] = dto.LinePreview{UID: it.UID, Amounts: toLineAmountsPayload(perItem[i])}
		if perItem[i] == nil {
			if _, err := uc.calc.ComputeLineAmounts(it, s.Header.InvoiceType); err != nil {
				lines[i].Error = err.Error()
			}
		}
	}

	formErrs := invoice.ValidateAll(s.Header, s.Issuer, s.Recipient, s.Items)
	return &dto.PreviewResponse{
		TipoFactura: string(s.Header.InvoiceType),
		DesgloseIVA: s.Header.InvoiceType.ItemizesVAT(),
		Items:       lines,
		TotalNeto:   money(totals.Net),
		TotalIVA:    money(totals.VAT),
		Total:       money(totals.Gross),
		Formateados: dto.FormattedTotals{
			Neto:  "$ " + afip.FormatMoney(totals.Net),
			IVA:   "$ " + afip.FormatMoney(totals.VAT),
			Total: "$ " + afip.FormatMoney(totals.Gross),
		},
		ErroresCalc: nonNil(calcErrs),
		ErroresForm: nonNil([]string(formErrs)),
	}, nil
}

// Finalize valida el formulario completo, arma el payload y pasa a revisión.
// Con errores devuelve invoice.ValidationErrors (incluye los errores de cálculo) y la sesión no cambia.
func (uc *WizardUseCase) Finalize(ctx context.Context, owner, id string) (*dto.SessionResponse, error) {
	s, unlock, err := uc.loadLocked(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if s.Step != entity.StepEdit {
		return nil, domain.ErrInvalidStep
	}

	errs := invoice.ValidateAll(s.Header, s.Issuer, s.Recipient, s.Items)
	if len(errs) == 0 {
		_, _, calcErrs := uc.calc.ComputeTotals(s.Items, s.Header.InvoiceType)
		errs = append(errs, calcErrs...)
	}
	if len(errs) > 0 {
		uc.metrics.ObserveFinalize(false)
		return nil, errs
	}
	uc.metrics.ObserveFinalize(true)

	now := uc.now()
	payload, err := uc.builder.Build(s.Issuer, s.Recipient, s.Header, s.Items, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar payload: %w", err)
	}
	next, err := wizard.ToReview(s, raw, now)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return toSessionResponse(next), nil
}

// BackToEdit vuelve a edición conservando los datos cargados.
func (uc *WizardUseCase) BackToEdit(ctx context.Context, owner, id string) (*dto.SessionResponse, error) {
	s, unlock, err := uc.loadLocked(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	next := wizard.BackToEdit(s, uc.now())
	if err := uc.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return toSessionResponse(next), nil
}

// Confirm pasa de revisión a confirmado.
func (uc *WizardUseCase) Confirm(ctx context.Context, owner, id string) (*dto.SessionResponse, error) {
	s, unlock, err := uc.loadLocked(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	next, err := wizard.Confirm(s, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return toSessionResponse(next), nil
}

// Submit guarda la copia local y envía el payload confirmado al webhook. Ninguna de las dos fallas
// corta el flujo: ambos resultados quedan registrados en la sesión y el envío puede repetirse.
func (uc *WizardUseCase) Submit(ctx context.Context, owner, id string) (*dto.SubmitResponse, error) {
	s, unlock, err := uc.loadLocked(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if s.Step != entity.StepConfirmed || len(s.LastPayload) == 0 {
		return nil, domain.ErrInvalidStep
	}

	var payload dto.InvoicePayload
	if err := json.Unmarshal(s.LastPayload, &payload); err != nil {
		return nil, fmt.Errorf("leer payload confirmado: %w", err)
	}

	now := uc.now()
	path, saveErr := uc.archive.Save(ctx, &payload, now)
	uc.metrics.ObserveArchive(saveErr == nil)
	if saveErr != nil {
		uc.log.Error().Err(saveErr).Str("session_id", s.ID).Msg("no se pudo guardar la copia local")
	} else {
		uc.log.Info().Str("session_id", s.ID).Str("path", path).Msg("copia local guardada")
	}

	start := time.Now()
	result, sendErr := uc.webhook.Send(ctx, &payload)
	if sendErr != nil {
		result = transportFailure(sendErr)
	}
	result.SentAt = now
	uc.metrics.ObserveSubmission(payload.Totales.TipoFactura, result.OK, time.Since(start))

	ev := uc.log.Info()
	if !result.OK {
		ev = uc.log.Warn()
	}
	ev.Str("session_id", s.ID).Int("status_code", result.StatusCode).Bool("ok", result.OK).Str("error", result.Error).Msg("respuesta del webhook")

	next, err := wizard.RecordSubmission(s, path, saveErr, result, now)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}

	out := &dto.SubmitResponse{Archivo: path, Webhook: toWebhookResult(result)}
	if saveErr != nil {
		out.ErrorArchivo = saveErr.Error()
	}
	return out, nil
}

// PreviewPDF genera el PDF del borrador en cualquier paso. Devuelve bytes y nombre sugerido.
func (uc *WizardUseCase) PreviewPDF(ctx context.Context, owner, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	s, err := uc.load(ctx, owner, id)
	if err != nil {
		return nil, "", err
	}
	perItem, totals, calcErrs := uc.calc.ComputeTotals(s.Items, s.Header.InvoiceType)
	b, err := uc.pdf.GeneratePreviewPDF(ctx, PreviewDocument{
		SessionID:  s.ID,
		Step:       s.Step,
		Header:     s.Header,
		Issuer:     s.Issuer,
		Recipient:  s.Recipient,
		Items:      s.Items,
		Amounts:    perItem,
		Totals:     totals,
		CalcErrors: calcErrs,
		VATRate:    uc.calc.VATRate().String(),
		Currency:   uc.currency,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}
	return b, fmt.Sprintf("borrador_%s.pdf", s.ID), nil
}

// BillingEvents traduce el formulario de facturación a eventos del asistente.
func BillingEvents(in dto.BillingRequest) ([]wizard.Event, error) {
	start, err := ParseFormDate(in.FechaInicio)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de inicio: %v", domain.ErrInvalidInput, err)
	}
	end, err := ParseFormDate(in.FechaFin)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de fin: %v", domain.ErrInvalidInput, err)
	}
	due, err := ParseFormDate(in.FechaVencimiento)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de vencimiento: %v", domain.ErrInvalidInput, err)
	}
	return []wizard.Event{
		wizard.SetInvoiceType{InvoiceType: afip.InvoiceType(in.TipoFactura)},
		wizard.UpdateBilling{
			Concept:     afip.Concept(in.ServicioProducto),
			PeriodStart: start,
			PeriodEnd:   end,
			DueDate:     due,
		},
	}, nil
}

// ParseFormDate acepta DD/MM/YYYY o YYYY-MM-DD; vacío es fecha no cargada.
func ParseFormDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha inválido %q", s)
}

func (uc *WizardUseCase) load(ctx context.Context, owner, id string) (*entity.Session, error) {
	s, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Owner != owner {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// loadLocked toma el lock de la sesión y la carga. Ids inexistentes o ajenos no dejan entrada en
// uc.locks; las sesiones no se borran, así que la comprobación previa sin lock alcanza.
func (uc *WizardUseCase) loadLocked(ctx context.Context, owner, id string) (*entity.Session, func(), error) {
	if _, err := uc.load(ctx, owner, id); err != nil {
		return nil, nil, err
	}
	unlock := uc.lock(id)
	s, err := uc.load(ctx, owner, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return s, unlock, nil
}

func (uc *WizardUseCase) lock(id string) func() {
	m, _ := uc.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func transportFailure(err error) *entity.SubmissionResult {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &entity.SubmissionResult{OK: false, Response: body, Error: err.Error()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
