package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Step paso del asistente.
type Step string

const (
	StepEdit      Step = "edit"
	StepReview    Step = "review"
	StepConfirmed Step = "confirmed"
)

// SubmissionResult resultado del último envío al webhook.
// StatusCode es 0 cuando no hubo respuesta HTTP (error de transporte).
type SubmissionResult struct {
	OK         bool            `json:"ok"`
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	SentAt     time.Time       `json:"sent_at"`
}

// Session estado completo del asistente para un operador.
// LastPayload guarda el JSON ya normalizado que se generó al finalizar la edición.
type Session struct {
	ID             string            `json:"id"`
	Owner          string            `json:"owner"`
	Step           Step              `json:"step"`
	Header         Header            `json:"facturacion"`
	Issuer         Issuer            `json:"emisor"`
	Recipient      Recipient         `json:"receptor"`
	Items          []LineItem        `json:"items"`
	LastPayload    json.RawMessage   `json:"last_payload,omitempty"`
	LastSavedPath  string            `json:"last_saved_path,omitempty"`
	LastSaveError  string            `json:"last_save_error,omitempty"`
	LastSubmission *SubmissionResult `json:"last_webhook_result,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewSession crea una sesión en edición con las fechas en el día actual y un ítem vacío.
func NewSession(owner string, now time.Time) *Session {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return &Session{
		ID:    uuid.New().String(),
		Owner: owner,
		Step:  StepEdit,
		Header: Header{
			PeriodStart: today,
			PeriodEnd:   today,
			DueDate:     today,
		},
		Items:     []LineItem{NewLineItem()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone devuelve una copia independiente (ítems, payload y resultado no se comparten).
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]LineItem(nil), s.Items...)
	if s.LastPayload != nil {
		c.LastPayload = append(json.RawMessage(nil), s.LastPayload...)
	}
	if s.LastSubmission != nil {
		r := *s.LastSubmission
		r.Response = append(json.RawMessage(nil), s.LastSubmission.Response...)
		c.LastSubmission = &r
	}
	return &c
}
